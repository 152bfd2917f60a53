package whatsapp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const senderIdleTimeout = 5 * time.Minute

// Task is one unit of webhook work bound to a single sender.
type Task func(ctx context.Context)

// senderQueue serializes the tasks of one sender.
type senderQueue struct {
	tasks chan Task
}

// Dispatcher fans webhook messages out to per-sender queues. Tasks for the
// same sender run strictly in arrival order; different senders run
// concurrently. Queues for inactive senders are torn down after an idle
// period.
type Dispatcher struct {
	queues    map[string]*senderQueue
	mu        sync.Mutex
	queueSize int
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given per-sender queue depth.
func NewDispatcher(queueSize int, logger *zap.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		queues:    make(map[string]*senderQueue),
		queueSize: queueSize,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Dispatch enqueues a task on the sender's queue, creating the queue and its
// worker on first use. A full queue drops the task rather than blocking the
// webhook acknowledgement; the provider retries undelivered messages anyway.
func (d *Dispatcher) Dispatch(senderID string, task Task) {
	d.mu.Lock()
	if d.ctx.Err() != nil {
		d.mu.Unlock()
		d.logger.Warn("dispatch after shutdown dropped", zap.String("sender_id", senderID))
		return
	}

	queue, exists := d.queues[senderID]
	if !exists {
		queue = &senderQueue{tasks: make(chan Task, d.queueSize)}
		d.queues[senderID] = queue

		d.wg.Add(1)
		go d.runSender(senderID, queue)
	}
	d.mu.Unlock()

	select {
	case queue.tasks <- task:
	default:
		d.logger.Warn("sender queue full, task dropped",
			zap.String("sender_id", senderID),
		)
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) runSender(senderID string, queue *senderQueue) {
	defer d.wg.Done()

	idle := time.NewTimer(senderIdleTimeout)
	defer idle.Stop()

	for {
		select {
		case task := <-queue.tasks:
			task(d.ctx)

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(senderIdleTimeout)

		case <-idle.C:
			// Remove the queue only if nothing raced in between the timer
			// firing and the lock; a late enqueue keeps the worker alive.
			d.mu.Lock()
			if len(queue.tasks) == 0 {
				delete(d.queues, senderID)
				d.mu.Unlock()
				d.logger.Debug("idle sender queue removed",
					zap.String("sender_id", senderID),
				)
				return
			}
			d.mu.Unlock()
			idle.Reset(senderIdleTimeout)

		case <-d.ctx.Done():
			d.drain(queue)
			return
		}
	}
}

// drain runs whatever is already queued so accepted webhook messages are not
// lost on shutdown.
func (d *Dispatcher) drain(queue *senderQueue) {
	for {
		select {
		case task := <-queue.tasks:
			task(context.Background())
		default:
			return
		}
	}
}
