package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/model"
)

func init() {
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Show allowed genders and cities",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(cmd, map[string][]string{
				"genders": model.Genders,
				"cities":  model.Cities,
			})
		},
	}

	citiesCmd := &cobra.Command{
		Use:   "cities",
		Short: "List allowed cities",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(cmd, model.Cities)
		},
	}

	gendersCmd := &cobra.Command{
		Use:   "genders",
		Short: "List allowed genders",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(cmd, model.Genders)
		},
	}

	optionsCmd.AddCommand(citiesCmd, gendersCmd)
	RootCmd.AddCommand(optionsCmd)
}
