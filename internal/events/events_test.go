package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/person-registry/internal/model"
)

func samplePerson() model.Person {
	return model.Person{
		ID:         42,
		NationalID: "1234567890",
		FirstNames: "Juan",
		LastNames:  "Perez",
		BirthDate:  "2000-01-01",
		Gender:     model.GenderMasculine,
		City:       "Quito",
	}
}

func TestNew(t *testing.T) {
	created := New(ActionCreated, samplePerson())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(42), created.RecordID)
	require.NotNil(t, created.Person)
	assert.Equal(t, "Juan", created.Person.FirstNames)

	deleted := New(ActionDeleted, samplePerson())
	assert.Nil(t, deleted.Person)
	assert.Equal(t, "1234567890", deleted.NationalID)
	assert.NotEqual(t, created.ID, deleted.ID)
}

func TestStreamFields(t *testing.T) {
	ev := New(ActionUpdated, samplePerson())

	fields, err := streamFields(ev)
	require.NoError(t, err)
	require.Len(t, fields, 4)

	assert.Equal(t, [2]string{"event_id", ev.ID}, fields[0])
	assert.Equal(t, [2]string{"event_type", "person_updated"}, fields[1])
	assert.Equal(t, [2]string{"aggregate_id", "person_42"}, fields[2])

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(fields[3][1]), &decoded))
	assert.Equal(t, ActionUpdated, decoded.Action)
	assert.Equal(t, "Quito", decoded.Person.City)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), New(ActionCreated, samplePerson())))
}
