package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export people as JSON",
		Long:  "Export every record as a JSON array, oldest first. The output can be fed back to import.",
		Run:   runExport,
	}

	cmd.Flags().String("city", "", "Filter by city")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")

	a := mustOpenApp(cmd)
	defer a.Close()

	persons, err := a.svc.List(cmd.Context(), store.ListParams{
		City:  city,
		Order: store.OrderOldest,
	})
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, persons)
}
