package social

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/events"
	"github.com/inkstream/inkstream/internal/models"
	"github.com/inkstream/inkstream/pkg/logging"
)

type notifyJob struct {
	recipient string
	actor     string
	createdAt time.Time
}

// Notifier writes follow notifications asynchronously. Fan-out is decoupled
// from the follow itself: jobs are enqueued after the edge commit, a full
// queue drops the job, and a failed write is logged and forgotten. After a
// record lands, the unread-changed signal is broadcast on the bus.
type Notifier struct {
	notifs   *db.NotificationRepository
	resolver *ResolverChain
	bus      *events.Bus
	ch       chan notifyJob
	logger   *zap.Logger
}

// NewNotifier creates a notifier with a bounded job queue
func NewNotifier(notifs *db.NotificationRepository, resolver *ResolverChain, bus *events.Bus, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Notifier{
		notifs:   notifs,
		resolver: resolver,
		bus:      bus,
		ch:       make(chan notifyJob, queueSize),
		logger:   logging.WithComponent("follow-notifier"),
	}
}

// Start launches worker goroutines and returns a stop function. Stop waits
// until every worker has drained the queue and finished its in-flight write,
// so a record for every accepted job exists before stop returns; the passed
// context bounds the wait.
func (n *Notifier) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-n.ch:
					n.process(job)
				case <-stopCh:
					// Drain remaining jobs before exiting
					for {
						select {
						case job := <-n.ch:
							n.process(job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	var stopOnce sync.Once
	return func(ctx context.Context) error {
		stopOnce.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Enqueue schedules a follow notification for the recipient. Never blocks;
// a full queue drops the job with a warning.
func (n *Notifier) Enqueue(recipient, actor string) {
	select {
	case n.ch <- notifyJob{recipient: recipient, actor: actor, createdAt: time.Now().UTC()}:
	default:
		n.logger.Warn("notification queue full, dropping job",
			zap.String("recipient", recipient), zap.String("actor", actor))
	}
}

// QueueLen returns the current queue length (sampled)
func (n *Notifier) QueueLen() int { return len(n.ch) }

func (n *Notifier) process(job notifyJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Snapshot the actor's display identity at fan-out time
	actor := n.resolver.Resolve(ctx, job.actor)

	notif := &models.FollowNotification{
		Recipient:   job.recipient,
		Actor:       job.actor,
		ActorName:   actor.Nickname,
		ActorAvatar: actor.AvatarURL,
		CreatedAt:   job.createdAt,
	}
	if err := n.notifs.Create(ctx, notif); err != nil {
		n.logger.Warn("failed to write follow notification",
			zap.String("recipient", job.recipient),
			zap.String("actor", job.actor),
			zap.Error(err))
		return
	}

	if n.bus != nil {
		n.bus.Publish()
	}
}
