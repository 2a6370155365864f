package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/registry"
	"github.com/rcliao/person-registry/internal/store"
	"github.com/rcliao/person-registry/internal/validate"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	svc := registry.New(store.NewMemoryStore(), registry.WithValidator(validate.NewWithClock(clock)))
	return NewController(svc)
}

func fill(ctx context.Context, c *Controller, in model.PersonInput) {
	for _, f := range model.Fields {
		v, _ := in.Get(f)
		c.Dispatch(ctx, Event{Kind: KindChange, Field: f, Value: v})
	}
}

func juan() model.PersonInput {
	return model.PersonInput{
		NationalID: "1234567890",
		FirstNames: "Juan",
		LastNames:  "Perez",
		BirthDate:  "2000-01-01",
		Gender:     model.GenderMasculine,
		City:       "Quito",
	}
}

func TestReduceChangeClearsOnlyThatFieldError(t *testing.T) {
	errs := validate.Errors{
		model.FieldNationalID: validate.MsgNationalIDFormat,
		model.FieldCity:       validate.MsgCityRequired,
	}
	s := State{Errors: errs}

	next := Reduce(s, Event{Kind: KindChange, Field: model.FieldCity, Value: "Loja"})
	assert.Equal(t, "Loja", next.Draft.City)
	assert.NotContains(t, next.Errors, model.FieldCity)
	assert.Contains(t, next.Errors, model.FieldNationalID)

	// the previous state value is untouched
	assert.Contains(t, s.Errors, model.FieldCity)
	assert.Empty(t, s.Draft.City)
}

func TestReduceUnknownField(t *testing.T) {
	s := Reduce(State{}, Event{Kind: KindChange, Field: "shoeSize", Value: "42"})
	assert.Equal(t, model.PersonInput{}, s.Draft)
	assert.Contains(t, s.Notice, "shoeSize")
}

func TestReduceTransitions(t *testing.T) {
	rec := &model.Person{ID: 7, NationalID: "1234567890", FirstNames: "Juan"}

	editing := Reduce(State{}, Event{Kind: KindLoaded, Record: rec})
	assert.Equal(t, Editing, editing.Mode)
	assert.Equal(t, int64(7), editing.EditingID)
	assert.Equal(t, "Juan", editing.Draft.FirstNames)

	t.Run("cancel clears the draft", func(t *testing.T) {
		s := Reduce(editing, Event{Kind: KindCancel})
		assert.Equal(t, Idle, s.Mode)
		assert.Zero(t, s.EditingID)
		assert.Equal(t, model.PersonInput{}, s.Draft)
	})

	t.Run("rejected stays in mode", func(t *testing.T) {
		errs := validate.Errors{model.FieldLastNames: validate.MsgLastNamesRequired}
		s := Reduce(editing, Event{Kind: KindRejected, Errors: errs})
		assert.Equal(t, Editing, s.Mode)
		assert.Equal(t, int64(7), s.EditingID)
		assert.Equal(t, errs, s.Errors)
	})

	t.Run("saved returns to idle", func(t *testing.T) {
		s := Reduce(editing, Event{Kind: KindSaved, Record: rec})
		assert.Equal(t, Idle, s.Mode)
		assert.Equal(t, model.PersonInput{}, s.Draft)
		assert.Contains(t, s.Notice, "updated")
	})

	t.Run("deleting the edited record returns to idle", func(t *testing.T) {
		s := Reduce(editing, Event{Kind: KindDeleted, ID: 7})
		assert.Equal(t, Idle, s.Mode)
		assert.Equal(t, model.PersonInput{}, s.Draft)
	})

	t.Run("deleting another record keeps editing", func(t *testing.T) {
		s := Reduce(editing, Event{Kind: KindDeleted, ID: 8})
		assert.Equal(t, Editing, s.Mode)
		assert.Equal(t, int64(7), s.EditingID)
	})

	t.Run("intents alone do not change state", func(t *testing.T) {
		for _, k := range []Kind{KindEdit, KindCheck, KindSubmit, KindDelete} {
			assert.Equal(t, editing, Reduce(editing, Event{Kind: k, ID: 9}), k)
		}
	})
}

func TestControllerCreate(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	fill(ctx, c, juan())
	s := c.Dispatch(ctx, Event{Kind: KindSubmit})
	assert.Equal(t, Idle, s.Mode)
	assert.Empty(t, s.Errors)
	assert.Equal(t, model.PersonInput{}, s.Draft)

	records, err := c.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, juan(), records[0].Input())
}

func TestControllerInvalidSubmitKeepsDraft(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	in := juan()
	in.NationalID = "12345"
	fill(ctx, c, in)

	s := c.Dispatch(ctx, Event{Kind: KindSubmit})
	assert.Equal(t, Idle, s.Mode)
	assert.Equal(t, validate.Errors{model.FieldNationalID: validate.MsgNationalIDFormat}, s.Errors)
	assert.Equal(t, "12345", s.Draft.NationalID)

	records, err := c.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	s = c.Dispatch(ctx, Event{Kind: KindChange, Field: model.FieldNationalID, Value: "1234567890"})
	assert.Empty(t, s.Errors)
}

func TestControllerCheckDoesNotSave(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	in := juan()
	in.City = "Lima"
	fill(ctx, c, in)

	s := c.Dispatch(ctx, Event{Kind: KindCheck})
	assert.Equal(t, validate.Errors{model.FieldCity: validate.MsgCityInvalid}, s.Errors)
	assert.Equal(t, "Lima", s.Draft.City)

	s = c.Dispatch(ctx, Event{Kind: KindChange, Field: model.FieldCity, Value: "Loja"})
	s = c.Dispatch(ctx, Event{Kind: KindCheck})
	assert.Empty(t, s.Errors)
	assert.Equal(t, "all fields valid", s.Notice)
	assert.Equal(t, "Loja", s.Draft.City)

	records, err := c.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestControllerCheckWhileEditingAllowsOwnNationalID(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	fill(ctx, c, juan())
	c.Dispatch(ctx, Event{Kind: KindSubmit})
	records, err := c.Records(ctx)
	require.NoError(t, err)
	id := records[0].ID

	fill(ctx, c, juan())
	s := c.Dispatch(ctx, Event{Kind: KindCheck})
	assert.Equal(t, validate.MsgNationalIDTaken, s.Errors[model.FieldNationalID])

	c.Dispatch(ctx, Event{Kind: KindCancel})
	c.Dispatch(ctx, Event{Kind: KindEdit, ID: id})
	s = c.Dispatch(ctx, Event{Kind: KindCheck})
	assert.Equal(t, Editing, s.Mode)
	assert.Empty(t, s.Errors)
}

func TestControllerEditWorkflow(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	fill(ctx, c, juan())
	c.Dispatch(ctx, Event{Kind: KindSubmit})
	records, err := c.Records(ctx)
	require.NoError(t, err)
	id := records[0].ID

	s := c.Dispatch(ctx, Event{Kind: KindEdit, ID: id})
	require.Equal(t, Editing, s.Mode)
	assert.Equal(t, id, s.EditingID)
	assert.Equal(t, juan(), s.Draft)

	// resubmitting the record's own national id is not a duplicate
	c.Dispatch(ctx, Event{Kind: KindChange, Field: model.FieldCity, Value: "Ibarra"})
	s = c.Dispatch(ctx, Event{Kind: KindSubmit})
	assert.Equal(t, Idle, s.Mode)
	assert.Empty(t, s.Errors)

	records, err = c.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ibarra", records[0].City)
	assert.Equal(t, id, records[0].ID)
}

func TestControllerEditMissingRecord(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	s := c.Dispatch(ctx, Event{Kind: KindEdit, ID: 99})
	assert.Equal(t, Idle, s.Mode)
	assert.Contains(t, s.Notice, model.ErrNotFound.Error())
}

func TestControllerDeleteRecordUnderEdit(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	fill(ctx, c, juan())
	c.Dispatch(ctx, Event{Kind: KindSubmit})
	records, err := c.Records(ctx)
	require.NoError(t, err)
	id := records[0].ID

	c.Dispatch(ctx, Event{Kind: KindEdit, ID: id})
	s := c.Dispatch(ctx, Event{Kind: KindDelete, ID: id})
	assert.Equal(t, Idle, s.Mode)
	assert.Equal(t, model.PersonInput{}, s.Draft)

	records, err = c.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	s = c.Dispatch(ctx, Event{Kind: KindDelete, ID: id})
	assert.Contains(t, s.Notice, "error")
}

func TestControllerDuplicateOnCreate(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	fill(ctx, c, juan())
	c.Dispatch(ctx, Event{Kind: KindSubmit})

	fill(ctx, c, juan())
	s := c.Dispatch(ctx, Event{Kind: KindSubmit})
	assert.Equal(t, validate.MsgNationalIDTaken, s.Errors[model.FieldNationalID])
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Event
	}{
		{"set firstNames Juan Carlos", Event{Kind: KindChange, Field: model.FieldFirstNames, Value: "Juan Carlos"}},
		{"set FirstNames Ana", Event{Kind: KindChange, Field: model.FieldFirstNames, Value: "Ana"}},
		{"set firstnames Ana", Event{Kind: KindChange, Field: model.FieldFirstNames, Value: "Ana"}},
		{"set BIRTHDATE 2000-01-01", Event{Kind: KindChange, Field: model.FieldBirthDate, Value: "2000-01-01"}},
		{"set City Loja", Event{Kind: KindChange, Field: model.FieldCity, Value: "Loja"}},
		{"set nid 1234567890", Event{Kind: KindChange, Field: model.FieldNationalID, Value: "1234567890"}},
		{"set city", Event{Kind: KindChange, Field: model.FieldCity}},
		{"  edit 3 ", Event{Kind: KindEdit, ID: 3}},
		{"delete 4", Event{Kind: KindDelete, ID: 4}},
		{"rm 4", Event{Kind: KindDelete, ID: 4}},
		{"SUBMIT", Event{Kind: KindSubmit}},
		{"check", Event{Kind: KindCheck}},
		{"cancel", Event{Kind: KindCancel}},
		{"ls", Event{Kind: KindList}},
		{"show", Event{Kind: KindShow}},
		{"exit", Event{Kind: KindQuit}},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseCommand(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	_, err := ParseCommand("   ")
	assert.True(t, errors.Is(err, ErrEmptyCommand))

	for _, line := range []string{"edit", "edit abc", "delete -1", "set", "dance"} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}
