package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search people by name or national ID",
		Long:  "Search national IDs, first names and last names for matching text (case-insensitive).",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("city", "", "Filter by city")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	a := mustOpenApp(cmd)
	defer a.Close()

	results, err := a.svc.List(cmd.Context(), store.ListParams{
		Query: query,
		City:  city,
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 && formatFlag == "text" {
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return
	}

	printPersons(cmd, results)
}
