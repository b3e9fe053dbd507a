package notify

import (
	"context"
	"sync"
	"time"

	"auction-bidding/internal/models"
	"auction-bidding/utils"
)

// Sink receives announcements drained from the outbox
type Sink interface {
	Publish(ev models.Event) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ev models.Event) error

func (f SinkFunc) Publish(ev models.Event) error {
	return f(ev)
}

// Outbox decouples announcers from delivery. Announce never blocks: when the queue
// is full the event is dropped and observers catch up by polling the read path.
type Outbox struct {
	queue chan models.Event
	sinks []Sink
	now   func() time.Time

	mu      sync.Mutex
	dropped int
}

func NewOutbox(size int, sinks ...Sink) *Outbox {
	if size <= 0 {
		size = 1
	}
	return &Outbox{
		queue: make(chan models.Event, size),
		sinks: sinks,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Announce queues an event for delivery
func (o *Outbox) Announce(itemID string, kind models.EventKind) {
	ev := models.Event{ItemID: itemID, Kind: kind, At: o.now()}
	select {
	case o.queue <- ev:
	default:
		o.mu.Lock()
		o.dropped++
		o.mu.Unlock()
		utils.Warn("outbox full, dropping announcement", map[string]any{"item_id": itemID, "kind": string(kind)})
	}
}

// Dropped returns how many announcements were discarded because the queue was full
func (o *Outbox) Dropped() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}

// Run delivers queued events until ctx is done, then drains what is already queued
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case ev := <-o.queue:
			o.deliver(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-o.queue:
					o.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (o *Outbox) deliver(ev models.Event) {
	for _, sink := range o.sinks {
		if err := sink.Publish(ev); err != nil {
			utils.Warn("announcement delivery failed", map[string]any{
				"item_id": ev.ItemID,
				"kind":    string(ev.Kind),
				"error":   err.Error(),
			})
		}
	}
}

// Nop discards every announcement
type Nop struct{}

func (Nop) Announce(string, models.EventKind) {}
