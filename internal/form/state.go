// Package form implements the interactive edit workflow: a pure reducer over
// explicit state values, and a controller that performs registry calls.
package form

import (
	"fmt"
	"maps"

	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/validate"
)

// Mode is the workflow position.
type Mode int

const (
	Idle Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "idle"
}

// State is everything the form shows. It is a value; Reduce returns a new one.
type State struct {
	Mode      Mode
	EditingID int64 // set only in Editing mode
	Draft     model.PersonInput
	Errors    validate.Errors
	Notice    string
}

// Kind names an event.
type Kind string

// User intents.
const (
	KindChange Kind = "change"
	KindEdit   Kind = "edit"
	KindSubmit Kind = "submit"
	KindCancel Kind = "cancel"
	KindDelete Kind = "delete"
	KindCheck  Kind = "check"
)

// Outcomes fed back by the controller after a registry call.
const (
	KindLoaded   Kind = "loaded"
	KindChecked  Kind = "checked"
	KindSaved    Kind = "saved"
	KindRejected Kind = "rejected"
	KindDeleted  Kind = "deleted"
	KindFailed   Kind = "failed"
)

// Event is an input to Reduce.
type Event struct {
	Kind   Kind
	Field  string        // change
	Value  string        // change
	ID     int64         // edit, delete, deleted
	Record *model.Person // loaded, saved
	Errors validate.Errors
	Err    error // failed
}

// Reduce applies ev to s. It performs no I/O; intents that need the registry
// (edit, check, submit, delete) leave s unchanged until their outcome arrives.
func Reduce(s State, ev Event) State {
	switch ev.Kind {
	case KindChange:
		if err := s.Draft.Set(ev.Field, ev.Value); err != nil {
			s.Notice = err.Error()
			return s
		}
		if _, ok := s.Errors[ev.Field]; ok {
			errs := maps.Clone(s.Errors)
			delete(errs, ev.Field)
			s.Errors = errs
		}
		s.Notice = ""
		return s

	case KindCancel:
		return State{Notice: "edit cancelled"}

	case KindLoaded:
		return State{
			Mode:      Editing,
			EditingID: ev.Record.ID,
			Draft:     ev.Record.Input(),
			Notice:    fmt.Sprintf("editing record %d", ev.Record.ID),
		}

	case KindChecked:
		s.Errors = nil
		s.Notice = "all fields valid"
		return s

	case KindSaved:
		verb := "registered"
		if s.Mode == Editing {
			verb = "updated"
		}
		return State{Notice: fmt.Sprintf("record %d %s", ev.Record.ID, verb)}

	case KindRejected:
		s.Errors = ev.Errors
		s.Notice = "fix the highlighted fields"
		return s

	case KindDeleted:
		if s.Mode == Editing && s.EditingID == ev.ID {
			return State{Notice: fmt.Sprintf("record %d deleted", ev.ID)}
		}
		s.Notice = fmt.Sprintf("record %d deleted", ev.ID)
		return s

	case KindFailed:
		s.Notice = "error: " + ev.Err.Error()
		return s
	}
	return s
}
