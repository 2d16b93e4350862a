package ports

import (
	"context"
	"encoding/json"
	"time"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeAll    ChangeType = "*"
)

// ChangeEvent is one committed row change. New is empty for deletes and Old
// is empty for inserts.
type ChangeEvent struct {
	Type       ChangeType
	Table      string
	New        json.RawMessage
	Old        json.RawMessage
	CommitTime time.Time
}

// ChannelSpec scopes a subscription to one table, an event type and an
// optional equality filter.
type ChannelSpec struct {
	Name   string
	Table  string
	Event  ChangeType
	Filter *Filter
}

type Subscription interface {
	Name() string
	Unsubscribe() error
}

// ChangeFeed delivers row changes. Handlers of one feed are called
// sequentially, in commit order.
type ChangeFeed interface {
	Subscribe(ctx context.Context, spec ChannelSpec, handler func(ChangeEvent)) (Subscription, error)
}
