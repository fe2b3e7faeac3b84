/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package subscriber

import (
	"context"

	"github.com/luandevpro/typeorm/metadata"
)

// Action identifies the lifecycle moment an event describes.
type Action string

const (
	BeforeInsert Action = "before-insert"
	AfterInsert  Action = "after-insert"
	BeforeUpdate Action = "before-update"
	AfterUpdate  Action = "after-update"
	BeforeRemove Action = "before-remove"
	AfterRemove  Action = "after-remove"
	AfterLoad    Action = "after-load"
)

// Event carries one entity lifecycle notification.
type Event struct {
	Action Action
	Target metadata.Target

	// Entity is the affected entity value. For before hooks it is the
	// value about to be written, so subscribers may mutate it through
	// the pointer they receive.
	Entity any
}

// Subscriber receives lifecycle events for one entity type.
type Subscriber interface {
	// ListenTo names the entity type the subscriber is interested in.
	// The zero value subscribes to every target.
	ListenTo() metadata.Target

	// Notify delivers one event. A non-nil error aborts the operation
	// that raised a before event and surfaces to the caller otherwise.
	Notify(ctx context.Context, event Event) error
}
