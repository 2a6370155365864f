// Package validate holds the field rules shared by the HTTP API and the interactive form.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rcliao/person-registry/internal/model"
)

// Messages reported per field.
const (
	MsgNationalIDRequired = "national ID is required"
	MsgNationalIDFormat   = "national ID must contain exactly 10 digits"
	MsgNationalIDTaken    = "national ID is already registered"

	MsgFirstNamesRequired = "first names are required"
	MsgFirstNamesLetters  = "first names may only contain letters and spaces"
	MsgFirstNamesTooShort = "first names must be at least 2 characters"
	MsgFirstNamesTooLong  = "first names cannot exceed 50 characters"

	MsgLastNamesRequired = "last names are required"
	MsgLastNamesLetters  = "last names may only contain letters and spaces"

	MsgBirthDateRequired = "birth date is required"
	MsgBirthDateFormat   = "birth date must be a valid date (YYYY-MM-DD)"
	MsgBirthDateFuture   = "birth date cannot be in the future"

	MsgGenderRequired = "gender is required"
	MsgGenderInvalid  = "gender must be Masculine or Feminine"

	MsgCityRequired = "city is required"
	MsgCityInvalid  = "city is not in the list of allowed cities"
)

// messages maps a field and the validate tag it failed to its message.
var messages = map[string]map[string]string{
	model.FieldNationalID: {
		"required": MsgNationalIDRequired,
		"len":      MsgNationalIDFormat,
		"number":   MsgNationalIDFormat,
	},
	model.FieldFirstNames: {
		"required": MsgFirstNamesRequired,
		"letters":  MsgFirstNamesLetters,
		"min":      MsgFirstNamesTooShort,
		"max":      MsgFirstNamesTooLong,
	},
	model.FieldLastNames: {
		"required": MsgLastNamesRequired,
		"letters":  MsgLastNamesLetters,
	},
	model.FieldBirthDate: {
		"required":  MsgBirthDateRequired,
		"datetime":  MsgBirthDateFormat,
		"notfuture": MsgBirthDateFuture,
	},
	model.FieldGender: {
		"required": MsgGenderRequired,
		"oneof":    MsgGenderInvalid,
	},
	model.FieldCity: {
		"required": MsgCityRequired,
		"oneof":    MsgCityInvalid,
	},
}

// structFields maps JSON field names to PersonInput struct fields, for StructPartial.
var structFields = map[string]string{
	model.FieldNationalID: "NationalID",
	model.FieldFirstNames: "FirstNames",
	model.FieldLastNames:  "LastNames",
	model.FieldBirthDate:  "BirthDate",
	model.FieldGender:     "Gender",
	model.FieldCity:       "City",
}

var namesRe = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ\s]+$`)

// Errors maps field names to human-readable messages. Empty means valid.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool { return len(e) == 0 }

// Lookup reports which record currently owns a national ID.
type Lookup func(nationalID string) (ownerID int64, ok bool)

// NoRecords is a Lookup over an empty registry.
func NoRecords(string) (int64, bool) { return 0, false }

// InRecords builds a Lookup over an in-memory list of records.
func InRecords(records []model.Person) Lookup {
	owners := make(map[string]int64, len(records))
	for _, r := range records {
		owners[r.NationalID] = r.ID
	}
	return func(nationalID string) (int64, bool) {
		id, ok := owners[nationalID]
		return id, ok
	}
}

// Validator checks candidate records against the validate tags on
// model.PersonInput. It is safe for concurrent use.
type Validator struct {
	now      func() time.Time
	validate *validator.Validate
}

// New returns a Validator that compares birth dates against the wall clock.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Validator using now as the current time.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{now: now, validate: validator.New()}
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.validate.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
		return namesRe.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("notfuture", v.notFuture)
	return v
}

// Record validates every field of in. editingID is the id of the record being
// edited (0 when creating) and is excluded from the uniqueness check.
func (v *Validator) Record(in model.PersonInput, lookup Lookup, editingID int64) Errors {
	errs := Errors{}
	for _, f := range model.Fields {
		if msg := v.Field(f, in, lookup, editingID); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// Field validates a single field of in and returns its message, or "" when it
// passes. Values are trimmed first, so "  " is missing and " J" is too short.
func (v *Validator) Field(field string, in model.PersonInput, lookup Lookup, editingID int64) string {
	name, ok := structFields[field]
	if !ok {
		return ""
	}
	in = trimmed(in)

	if msg := tagMessage(field, v.validate.StructPartial(in, name)); msg != "" {
		return msg
	}
	if field == model.FieldNationalID && lookup != nil {
		if owner, ok := lookup(in.NationalID); ok && owner != editingID {
			return MsgNationalIDTaken
		}
	}
	return ""
}

// tagMessage returns the message for the first tag field failed in err.
func tagMessage(field string, err error) string {
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return ""
	}
	for _, fe := range fes {
		if fe.Field() != field {
			continue
		}
		if msg, ok := messages[field][fe.Tag()]; ok {
			return msg
		}
		return fe.Error()
	}
	return ""
}

// notFuture accepts dates up to and including today in the clock's location.
// Unparseable values are left to the datetime tag.
func (v *Validator) notFuture(fl validator.FieldLevel) bool {
	now := v.now()
	d, err := time.ParseInLocation(model.DateLayout, fl.Field().String(), now.Location())
	if err != nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.After(today)
}

func trimmed(in model.PersonInput) model.PersonInput {
	return model.PersonInput{
		NationalID: strings.TrimSpace(in.NationalID),
		FirstNames: strings.TrimSpace(in.FirstNames),
		LastNames:  strings.TrimSpace(in.LastNames),
		BirthDate:  strings.TrimSpace(in.BirthDate),
		Gender:     strings.TrimSpace(in.Gender),
		City:       strings.TrimSpace(in.City),
	}
}
