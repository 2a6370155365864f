// Package events publishes person record changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/rueidis"

	"github.com/rcliao/person-registry/internal/model"
)

// Action represents the type of record change.
type Action string

const (
	ActionCreated Action = "person_created"
	ActionUpdated Action = "person_updated"
	ActionDeleted Action = "person_deleted"
)

// Event is the payload appended to the stream for each change.
type Event struct {
	ID         string        `json:"id"`
	Action     Action        `json:"action"`
	RecordID   int64         `json:"record_id"`
	NationalID string        `json:"national_id"`
	Person     *model.Person `json:"person,omitempty"`
	At         time.Time     `json:"at"`
}

// New builds an event for p. Deleted events carry no person snapshot.
func New(action Action, p model.Person) Event {
	ev := Event{
		ID:         ulid.Make().String(),
		Action:     action,
		RecordID:   p.ID,
		NationalID: p.NationalID,
		At:         time.Now().UTC(),
	}
	if action != ActionDeleted {
		ev.Person = &p
	}
	return ev
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// RedisStream appends events to a Redis Stream.
type RedisStream struct {
	client rueidis.Client
	stream string
}

// NewRedisStream connects to addr and publishes to stream.
func NewRedisStream(addr, stream string) (*RedisStream, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStream{client: client, stream: stream}, nil
}

// Publish appends ev with XADD.
func (r *RedisStream) Publish(ctx context.Context, ev Event) error {
	fields, err := streamFields(ev)
	if err != nil {
		return err
	}

	b := r.client.B().Xadd().Key(r.stream).Id("*").FieldValue()
	for _, kv := range fields {
		b = b.FieldValue(kv[0], kv[1])
	}
	if err := r.client.Do(ctx, b.Build()).Error(); err != nil {
		return fmt.Errorf("publish %s for record %d: %w", ev.Action, ev.RecordID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisStream) Close() {
	r.client.Close()
}

// streamFields renders ev as ordered stream field/value pairs.
func streamFields(ev Event) ([][2]string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return [][2]string{
		{"event_id", ev.ID},
		{"event_type", string(ev.Action)},
		{"aggregate_id", "person_" + strconv.FormatInt(ev.RecordID, 10)},
		{"payload", string(payload)},
	}, nil
}
