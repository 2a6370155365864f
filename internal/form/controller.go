package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/store"
)

// Service is the registry behaviour the form drives.
type Service interface {
	Create(ctx context.Context, in model.PersonInput) (*model.Person, error)
	Get(ctx context.Context, id int64) (*model.Person, error)
	List(ctx context.Context, p store.ListParams) ([]model.Person, error)
	Update(ctx context.Context, id int64, in model.PersonInput) (*model.Person, error)
	Delete(ctx context.Context, id int64) error
	Check(ctx context.Context, in model.PersonInput, editingID int64) error
}

// handlerFunc performs the side effect for an intent and returns the outcome event.
type handlerFunc func(ctx context.Context, s State, ev Event) Event

// Controller owns the current State and routes intents through its dispatch table.
// It is not safe for concurrent use.
type Controller struct {
	svc      Service
	state    State
	handlers map[Kind]handlerFunc
}

// NewController creates a Controller in the Idle state.
func NewController(svc Service) *Controller {
	c := &Controller{svc: svc}
	c.handlers = map[Kind]handlerFunc{
		KindEdit:   c.load,
		KindCheck:  c.check,
		KindSubmit: c.submit,
		KindDelete: c.remove,
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Dispatch reduces ev, runs its handler if it has one, and reduces the outcome.
func (c *Controller) Dispatch(ctx context.Context, ev Event) State {
	c.state = Reduce(c.state, ev)
	if h, ok := c.handlers[ev.Kind]; ok {
		c.state = Reduce(c.state, h(ctx, c.state, ev))
	}
	return c.state
}

// Records lists every record, newest first.
func (c *Controller) Records(ctx context.Context) ([]model.Person, error) {
	return c.svc.List(ctx, store.ListParams{})
}

func (c *Controller) load(ctx context.Context, _ State, ev Event) Event {
	p, err := c.svc.Get(ctx, ev.ID)
	if err != nil {
		return failed(fmt.Errorf("edit record %d: %w", ev.ID, err))
	}
	return Event{Kind: KindLoaded, Record: p}
}

func (c *Controller) check(ctx context.Context, s State, _ Event) Event {
	return outcome(c.svc.Check(ctx, s.Draft, s.EditingID), Event{Kind: KindChecked})
}

func (c *Controller) submit(ctx context.Context, s State, _ Event) Event {
	var (
		p   *model.Person
		err error
	)
	if s.Mode == Editing {
		p, err = c.svc.Update(ctx, s.EditingID, s.Draft)
	} else {
		p, err = c.svc.Create(ctx, s.Draft)
	}
	return outcome(err, Event{Kind: KindSaved, Record: p})
}

func (c *Controller) remove(ctx context.Context, _ State, ev Event) Event {
	if err := c.svc.Delete(ctx, ev.ID); err != nil {
		return failed(fmt.Errorf("delete record %d: %w", ev.ID, err))
	}
	return Event{Kind: KindDeleted, ID: ev.ID}
}

// outcome maps a registry error onto the event Reduce should see. A nil err yields ok.
func outcome(err error, ok Event) Event {
	var verr *model.ValidationError
	switch {
	case err == nil:
		return ok
	case errors.As(err, &verr):
		return Event{Kind: KindRejected, Errors: verr.Fields}
	}
	return failed(err)
}

func failed(err error) Event {
	return Event{Kind: KindFailed, Err: err}
}
