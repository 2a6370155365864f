// Package model defines the core person registry data types.
package model

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Person represents a registered person.
type Person struct {
	ID           int64     `json:"id"`
	NationalID   string    `json:"nationalId"`
	FirstNames   string    `json:"firstNames"`
	LastNames    string    `json:"lastNames"`
	BirthDate    string    `json:"birthDate"`
	Gender       string    `json:"gender"`
	City         string    `json:"city"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// PersonInput holds the mutable fields of a person, as submitted by a form or request body.
// The validate tags are the field rules in reporting order; letters and
// notfuture are registered by package validate. The oneof lists must match
// Genders and Cities.
type PersonInput struct {
	NationalID string `json:"nationalId" validate:"required,len=10,number"`
	FirstNames string `json:"firstNames" validate:"required,letters,min=2,max=50"`
	LastNames  string `json:"lastNames"  validate:"required,letters"`
	BirthDate  string `json:"birthDate"  validate:"required,datetime=2006-01-02,notfuture"`
	Gender     string `json:"gender"     validate:"required,oneof=Masculine Feminine"`
	City       string `json:"city"       validate:"required,oneof=Quito Guayaquil Cuenca Ambato Manta Loja Riobamba Machala Ibarra Latacunga"`
}

// Field names, as they appear in JSON bodies and validation error maps.
const (
	FieldNationalID = "nationalId"
	FieldFirstNames = "firstNames"
	FieldLastNames  = "lastNames"
	FieldBirthDate  = "birthDate"
	FieldGender     = "gender"
	FieldCity       = "city"
)

// Fields lists every input field in form order.
var Fields = []string{
	FieldNationalID,
	FieldFirstNames,
	FieldLastNames,
	FieldBirthDate,
	FieldGender,
	FieldCity,
}

// DateLayout is the wire and storage format of BirthDate.
const DateLayout = "2006-01-02"

const (
	GenderMasculine = "Masculine"
	GenderFeminine  = "Feminine"
)

// Genders are the allowed gender values, in display order.
var Genders = []string{GenderMasculine, GenderFeminine}

// Cities are the allowed cities, in display order.
var Cities = []string{
	"Quito",
	"Guayaquil",
	"Cuenca",
	"Ambato",
	"Manta",
	"Loja",
	"Riobamba",
	"Machala",
	"Ibarra",
	"Latacunga",
}

// ValidGenders are the allowed gender values.
var ValidGenders = map[string]bool{
	GenderMasculine: true,
	GenderFeminine:  true,
}

// ValidCities are the allowed city names.
var ValidCities = func() map[string]bool {
	m := make(map[string]bool, len(Cities))
	for _, c := range Cities {
		m[c] = true
	}
	return m
}()

var genderAliases = map[string]string{
	"masculine": GenderMasculine,
	"masculino": GenderMasculine,
	"m":         GenderMasculine,
	"feminine":  GenderFeminine,
	"femenino":  GenderFeminine,
	"f":         GenderFeminine,
}

// CanonicalGender maps a known alias to its canonical value; unknown values pass through.
func CanonicalGender(g string) string {
	if c, ok := genderAliases[strings.ToLower(g)]; ok {
		return c
	}
	return g
}

// Input returns the mutable fields of p.
func (p Person) Input() PersonInput {
	return PersonInput{
		NationalID: p.NationalID,
		FirstNames: p.FirstNames,
		LastNames:  p.LastNames,
		BirthDate:  p.BirthDate,
		Gender:     p.Gender,
		City:       p.City,
	}
}

// Normalize trims every field, composes accents to NFC and canonicalizes the gender.
func (in PersonInput) Normalize() PersonInput {
	clean := func(s string) string {
		return norm.NFC.String(strings.TrimSpace(s))
	}
	return PersonInput{
		NationalID: clean(in.NationalID),
		FirstNames: clean(in.FirstNames),
		LastNames:  clean(in.LastNames),
		BirthDate:  clean(in.BirthDate),
		Gender:     CanonicalGender(clean(in.Gender)),
		City:       clean(in.City),
	}
}

// Get returns the value of the named field.
func (in PersonInput) Get(field string) (string, error) {
	switch field {
	case FieldNationalID:
		return in.NationalID, nil
	case FieldFirstNames:
		return in.FirstNames, nil
	case FieldLastNames:
		return in.LastNames, nil
	case FieldBirthDate:
		return in.BirthDate, nil
	case FieldGender:
		return in.Gender, nil
	case FieldCity:
		return in.City, nil
	}
	return "", fmt.Errorf("unknown field %q", field)
}

// Set assigns value to the named field.
func (in *PersonInput) Set(field, value string) error {
	switch field {
	case FieldNationalID:
		in.NationalID = value
	case FieldFirstNames:
		in.FirstNames = value
	case FieldLastNames:
		in.LastNames = value
	case FieldBirthDate:
		in.BirthDate = value
	case FieldGender:
		in.Gender = value
	case FieldCity:
		in.City = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
