package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Update a person",
		Long:  "Update a person. Fields not given keep their current value; the result is validated as a whole.",
		Args:  cobra.ExactArgs(1),
		Run:   runEdit,
	}

	addPersonFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runEdit(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	if err != nil {
		exitErr("edit", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	current, err := a.svc.Get(cmd.Context(), id)
	if err != nil {
		exitErr("edit", err)
	}

	p, err := a.svc.Update(cmd.Context(), id, applyPersonFlags(cmd, current.Input()))
	if err != nil {
		exitErr("edit", err)
	}

	printJSON(cmd, p)
}
