package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/person-registry/internal/model"
)

func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
}

func validInput() model.PersonInput {
	return model.PersonInput{
		NationalID: "1234567890",
		FirstNames: "Juan",
		LastNames:  "Perez",
		BirthDate:  "2000-01-01",
		Gender:     model.GenderMasculine,
		City:       "Quito",
	}
}

func TestRecordValid(t *testing.T) {
	v := NewWithClock(fixedClock)

	errs := v.Record(validInput(), NoRecords, 0)
	assert.True(t, errs.Valid(), "unexpected errors: %v", errs)

	accented := validInput()
	accented.FirstNames = "José María"
	accented.LastNames = "Núñez Ibáñez"
	assert.Empty(t, v.Record(accented, NoRecords, 0))
}

func TestRecordFieldRules(t *testing.T) {
	v := NewWithClock(fixedClock)

	tests := []struct {
		name  string
		edit  func(*model.PersonInput)
		field string
		msg   string
	}{
		{"national id missing", func(in *model.PersonInput) { in.NationalID = "  " }, model.FieldNationalID, MsgNationalIDRequired},
		{"national id short", func(in *model.PersonInput) { in.NationalID = "12345" }, model.FieldNationalID, MsgNationalIDFormat},
		{"national id long", func(in *model.PersonInput) { in.NationalID = "12345678901" }, model.FieldNationalID, MsgNationalIDFormat},
		{"national id letters", func(in *model.PersonInput) { in.NationalID = "12345abcde" }, model.FieldNationalID, MsgNationalIDFormat},
		{"national id non-ascii digits", func(in *model.PersonInput) { in.NationalID = "١٢٣٤٥٦٧٨٩٠" }, model.FieldNationalID, MsgNationalIDFormat},
		{"first names missing", func(in *model.PersonInput) { in.FirstNames = "" }, model.FieldFirstNames, MsgFirstNamesRequired},
		{"first names digits", func(in *model.PersonInput) { in.FirstNames = "Juan2" }, model.FieldFirstNames, MsgFirstNamesLetters},
		{"first names one letter", func(in *model.PersonInput) { in.FirstNames = "J" }, model.FieldFirstNames, MsgFirstNamesTooShort},
		{"first names too long", func(in *model.PersonInput) { in.FirstNames = strings.Repeat("a", 51) }, model.FieldFirstNames, MsgFirstNamesTooLong},
		{"last names missing", func(in *model.PersonInput) { in.LastNames = "" }, model.FieldLastNames, MsgLastNamesRequired},
		{"last names symbols", func(in *model.PersonInput) { in.LastNames = "O'Brien" }, model.FieldLastNames, MsgLastNamesLetters},
		{"birth date missing", func(in *model.PersonInput) { in.BirthDate = "" }, model.FieldBirthDate, MsgBirthDateRequired},
		{"birth date garbage", func(in *model.PersonInput) { in.BirthDate = "01/01/2000" }, model.FieldBirthDate, MsgBirthDateFormat},
		{"birth date impossible", func(in *model.PersonInput) { in.BirthDate = "2000-02-30" }, model.FieldBirthDate, MsgBirthDateFormat},
		{"birth date tomorrow", func(in *model.PersonInput) { in.BirthDate = "2024-06-16" }, model.FieldBirthDate, MsgBirthDateFuture},
		{"gender missing", func(in *model.PersonInput) { in.Gender = "" }, model.FieldGender, MsgGenderRequired},
		{"gender unknown", func(in *model.PersonInput) { in.Gender = "Other" }, model.FieldGender, MsgGenderInvalid},
		{"city missing", func(in *model.PersonInput) { in.City = "" }, model.FieldCity, MsgCityRequired},
		{"city unknown", func(in *model.PersonInput) { in.City = "Lima" }, model.FieldCity, MsgCityInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.edit(&in)

			errs := v.Record(in, NoRecords, 0)
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestBirthDateToday(t *testing.T) {
	v := NewWithClock(fixedClock)
	in := validInput()
	in.BirthDate = "2024-06-15"
	assert.Empty(t, v.Field(model.FieldBirthDate, in, NoRecords, 0))
}

func TestFirstNamesLengthCountsCharacters(t *testing.T) {
	v := NewWithClock(fixedClock)
	in := validInput()
	in.FirstNames = strings.Repeat("ñ", 50)
	assert.Empty(t, v.Field(model.FieldFirstNames, in, NoRecords, 0))
}

func TestNationalIDUniqueness(t *testing.T) {
	v := NewWithClock(fixedClock)
	existing := []model.Person{
		{ID: 1, NationalID: "1234567890"},
		{ID: 2, NationalID: "0987654321"},
	}
	lookup := InRecords(existing)

	t.Run("taken on create", func(t *testing.T) {
		errs := v.Record(validInput(), lookup, 0)
		assert.Equal(t, Errors{model.FieldNationalID: MsgNationalIDTaken}, errs)
	})

	t.Run("own value on edit", func(t *testing.T) {
		assert.Empty(t, v.Record(validInput(), lookup, 1))
	})

	t.Run("another record's value on edit", func(t *testing.T) {
		in := validInput()
		in.NationalID = "0987654321"
		errs := v.Record(in, lookup, 1)
		assert.Equal(t, MsgNationalIDTaken, errs[model.FieldNationalID])
	})

	t.Run("nil lookup skips uniqueness", func(t *testing.T) {
		assert.Empty(t, v.Record(validInput(), nil, 0))
	})
}

func TestRecordIsUnionOfFields(t *testing.T) {
	v := NewWithClock(fixedClock)
	lookup := InRecords([]model.Person{{ID: 7, NationalID: "1111111111"}})

	inputs := []model.PersonInput{
		validInput(),
		{},
		{NationalID: "1111111111", FirstNames: "A", LastNames: "B1", BirthDate: "2999-01-01", Gender: "x", City: "Paris"},
		{NationalID: "abc", FirstNames: "Ana", LastNames: "Loor", BirthDate: "nope", Gender: model.GenderFeminine, City: "Loja"},
	}

	for _, in := range inputs {
		whole := v.Record(in, lookup, 0)
		union := Errors{}
		for _, f := range model.Fields {
			if msg := v.Field(f, in, lookup, 0); msg != "" {
				union[f] = msg
			}
		}
		assert.Equal(t, union, whole, "input %+v", in)
	}
}

func TestAllFieldsMissing(t *testing.T) {
	errs := NewWithClock(fixedClock).Record(model.PersonInput{}, NoRecords, 0)
	assert.Len(t, errs, len(model.Fields))
}

func TestUnknownField(t *testing.T) {
	assert.Empty(t, New().Field("email", validInput(), NoRecords, 0))
}

func TestFieldTrimsBeforeChecking(t *testing.T) {
	v := NewWithClock(fixedClock)
	in := validInput()

	in.FirstNames = " J"
	assert.Equal(t, MsgFirstNamesTooShort, v.Field(model.FieldFirstNames, in, NoRecords, 0))

	in.FirstNames = "J" + strings.Repeat(" ", 60) + "o"
	assert.Equal(t, MsgFirstNamesTooLong, v.Field(model.FieldFirstNames, in, NoRecords, 0))

	in.FirstNames = "  Jo  "
	assert.Empty(t, v.Field(model.FieldFirstNames, in, NoRecords, 0))

	in.NationalID = " 1234567890 "
	assert.Empty(t, v.Field(model.FieldNationalID, in, NoRecords, 0))
}

func TestEveryListedOptionPasses(t *testing.T) {
	v := NewWithClock(fixedClock)

	for _, g := range model.Genders {
		in := validInput()
		in.Gender = g
		assert.Empty(t, v.Field(model.FieldGender, in, NoRecords, 0), g)
	}
	for _, c := range model.Cities {
		in := validInput()
		in.City = c
		assert.Empty(t, v.Field(model.FieldCity, in, NoRecords, 0), c)
	}
}

func TestValidatorsAreIndependent(t *testing.T) {
	in := validInput()
	in.BirthDate = "2024-06-16"

	past := NewWithClock(fixedClock)
	later := NewWithClock(func() time.Time { return fixedClock().AddDate(0, 0, 2) })

	assert.Equal(t, MsgBirthDateFuture, past.Field(model.FieldBirthDate, in, NoRecords, 0))
	assert.Empty(t, later.Field(model.FieldBirthDate, in, NoRecords, 0))
}
