package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/model"
)

// printPersons writes persons as JSON, or as an aligned table with --format text.
func printPersons(cmd *cobra.Command, persons []model.Person) {
	if formatFlag != "text" {
		printJSON(cmd, persons)
		return
	}
	writeTable(cmd.OutOrStdout(), persons)
}

func writeTable(out io.Writer, persons []model.Person) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNATIONAL ID\tFIRST NAMES\tLAST NAMES\tBIRTH DATE\tGENDER\tCITY")
	for _, p := range persons {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.NationalID, p.FirstNames, p.LastNames, p.BirthDate, p.Gender, p.City)
	}
	w.Flush()
}
