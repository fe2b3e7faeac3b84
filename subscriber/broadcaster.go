/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package subscriber

import (
	"context"

	"github.com/luandevpro/typeorm/metadata"
)

// Broadcaster fans lifecycle events out to the subscribers of one entity
// type. The subscriber set is frozen at construction: subscribers added
// to a connection later are only seen by broadcasters built after them.
type Broadcaster struct {
	target      metadata.Target
	subscribers []Subscriber
}

// NewBroadcaster builds a broadcaster for target over a snapshot of subs.
func NewBroadcaster(target metadata.Target, subs []Subscriber) *Broadcaster {
	b := &Broadcaster{target: target}
	b.subscribers = make([]Subscriber, len(subs))
	copy(b.subscribers, subs)
	return b
}

// Target returns the entity type this broadcaster serves.
func (b *Broadcaster) Target() metadata.Target {
	return b.target
}

// Subscribers returns the frozen subscriber snapshot.
func (b *Broadcaster) Subscribers() []Subscriber {
	out := make([]Subscriber, len(b.subscribers))
	copy(out, b.subscribers)
	return out
}

// Dispatch delivers the event to every snapshot subscriber listening to
// this broadcaster's target (or to every target), in registration order,
// stopping at the first error.
func (b *Broadcaster) Dispatch(ctx context.Context, action Action, entity any) error {
	event := Event{
		Action: action,
		Target: b.target,
		Entity: entity,
	}
	for _, s := range b.subscribers {
		if listen := s.ListenTo(); listen != "" && listen != b.target {
			continue
		}
		if err := s.Notify(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
