package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"streakTrackerAPI/internal/events"
)

// EventDispatcher hands streak events to a Publisher from a small worker
// pool so publishing never sits on the request path.
type EventDispatcher struct {
	publisher events.Publisher
	workers   int
	jobQueue  chan *events.Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewEventDispatcher(publisher events.Publisher, workers, queueSize int) *EventDispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &EventDispatcher{
		publisher: publisher,
		workers:   workers,
		jobQueue:  make(chan *events.Event, queueSize),
	}
	d.startWorkers()
	return d
}

func (d *EventDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

func (d *EventDispatcher) worker(id int) {
	defer d.wg.Done()
	for e := range d.jobQueue {
		d.publish(id, e)
	}
}

func (d *EventDispatcher) publish(workerID int, e *events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.publisher.Publish(ctx, e); err != nil {
		log.Error().Err(err).
			Int("worker", workerID).
			Str("type", string(e.Type)).
			Str("streak_id", e.StreakID.String()).
			Msg("Failed to publish streak event")
	}
}

// Enqueue never blocks: when the queue is full or the dispatcher is closed
// the event is dropped. It reports whether the event was queued.
func (d *EventDispatcher) Enqueue(e *events.Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.jobQueue <- e:
		return true
	default:
		log.Warn().Str("type", string(e.Type)).Msg("Event queue full, dropping event")
		return false
	}
}

// Close stops accepting events, drains the queue and closes the publisher.
func (d *EventDispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.wg.Wait()
	return d.publisher.Close()
}
