package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/mylogger"
)

const (
	queueSize   = 256
	sinkTimeout = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("user event queue is full")
	ErrClosed    = errors.New("user event queue is closed")
)

type item struct {
	ctx   context.Context
	event messagebrokerdto.UserEvent
}

// Notification fans a user event out to every configured sink. Delivery runs
// on a background worker so a slow broker never holds up a request.
type Notification struct {
	log   mylogger.Logger
	sinks []driven.IUserEventPublisher

	queue  chan item
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func New(log mylogger.Logger, sinks ...driven.IUserEventPublisher) *Notification {
	n := &Notification{
		log:   log,
		queue: make(chan item, queueSize),
	}
	for _, s := range sinks {
		if s != nil {
			n.sinks = append(n.sinks, s)
		}
	}

	n.wg.Add(1)
	go n.run()
	return n
}

// Publish queues the event and returns immediately. The caller's cancellation
// does not reach the sinks.
func (n *Notification) Publish(ctx context.Context, event messagebrokerdto.UserEvent) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrClosed
	}

	select {
	case n.queue <- item{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		n.log.Action("notify").Warn("dropping user event", "event_type", event.Type, "event_id", event.EventId)
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (n *Notification) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *Notification) run() {
	defer n.wg.Done()
	for it := range n.queue {
		n.deliver(it)
	}
}

// deliver hands the event to every sink even when one fails.
func (n *Notification) deliver(it item) {
	for i, s := range n.sinks {
		ctx, cancel := context.WithTimeout(it.ctx, sinkTimeout)
		err := s.Publish(ctx, it.event)
		cancel()
		if err != nil {
			n.log.Action("notify").Warn("sink rejected user event", "sink", i, "event_type", it.event.Type, "error", err.Error())
		}
	}
}
