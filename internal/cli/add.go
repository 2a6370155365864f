package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/model"
)

// personFlags maps CLI flags to record fields.
var personFlags = []struct {
	name  string
	field string
	usage string
}{
	{"nid", model.FieldNationalID, "National ID (10 digits)"},
	{"first", model.FieldFirstNames, "First names"},
	{"last", model.FieldLastNames, "Last names"},
	{"birth", model.FieldBirthDate, "Birth date (YYYY-MM-DD)"},
	{"gender", model.FieldGender, "Gender: Masculine or Feminine"},
	{"city", model.FieldCity, "City"},
}

func addPersonFlags(cmd *cobra.Command) {
	for _, f := range personFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// applyPersonFlags overwrites the fields of in whose flags were given.
func applyPersonFlags(cmd *cobra.Command, in model.PersonInput) model.PersonInput {
	for _, f := range personFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.name)
		_ = in.Set(f.field, v)
	}
	return in
}

func init() {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a person",
		Long:  "Register a person. Every field is validated; nothing is stored if any field fails.",
		Example: `  person-registry add --nid 1234567890 --first Juan --last Perez \
    --birth 2000-01-01 --gender Masculine --city Quito`,
		Run: runAdd,
	}

	addPersonFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	p, err := a.svc.Create(cmd.Context(), applyPersonFlags(cmd, model.PersonInput{}))
	if err != nil {
		exitErr("add", err)
	}

	printJSON(cmd, p)
}
