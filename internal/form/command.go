package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/person-registry/internal/model"
)

// Shell-only commands that do not change State.
const (
	KindList Kind = "list"
	KindShow Kind = "show"
	KindHelp Kind = "help"
	KindQuit Kind = "quit"
)

// ErrEmptyCommand is returned for blank lines.
var ErrEmptyCommand = errors.New("empty command")

// fieldAliases lets the shell accept field names in any case, plus short and
// snake_case forms. Keys are lower case.
var fieldAliases = map[string]string{
	"nid":         model.FieldNationalID,
	"national_id": model.FieldNationalID,
	"first":       model.FieldFirstNames,
	"first_names": model.FieldFirstNames,
	"last":        model.FieldLastNames,
	"last_names":  model.FieldLastNames,
	"birth":       model.FieldBirthDate,
	"birth_date":  model.FieldBirthDate,
}

func init() {
	for _, f := range model.Fields {
		fieldAliases[strings.ToLower(f)] = f
	}
}

// ParseCommand turns one shell line into an event:
//
//	set <field> <value...>   edit <id>   delete <id>
//	check   submit   cancel   list   show   help   quit
func ParseCommand(line string) (Event, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "":
		return Event{}, ErrEmptyCommand
	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if field == "" {
			return Event{}, errors.New("usage: set <field> <value>")
		}
		if canonical, ok := fieldAliases[strings.ToLower(field)]; ok {
			field = canonical
		}
		return Event{Kind: KindChange, Field: field, Value: strings.TrimSpace(value)}, nil
	case "edit":
		id, err := parseID(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindEdit, ID: id}, nil
	case "delete", "rm":
		id, err := parseID(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindDelete, ID: id}, nil
	case "check", "validate":
		return Event{Kind: KindCheck}, nil
	case "submit", "save":
		return Event{Kind: KindSubmit}, nil
	case "cancel":
		return Event{Kind: KindCancel}, nil
	case "list", "ls":
		return Event{Kind: KindList}, nil
	case "show":
		return Event{Kind: KindShow}, nil
	case "help", "?":
		return Event{Kind: KindHelp}, nil
	case "quit", "exit":
		return Event{Kind: KindQuit}, nil
	}
	return Event{}, fmt.Errorf("unknown command %q (try help)", verb)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}
