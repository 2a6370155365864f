package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import people from JSON",
		Long: "Import people from a JSON array (stdin or --file). Expects the format produced by export; " +
			"ids and registration times are reassigned. Invalid rows are reported and skipped.",
		Run: runImport,
	}

	cmd.Flags().String("file", "", "Read from file instead of stdin")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")

	var r io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		exitErr("read input", err)
	}

	var rows []model.PersonInput
	if err := json.Unmarshal(data, &rows); err != nil {
		exitErr("parse json", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	summary, err := a.svc.Import(cmd.Context(), rows)
	if summary != nil {
		printJSON(cmd, summary)
	}
	if err != nil {
		exitErr("import", err)
	}
}
