package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one person",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	if err != nil {
		exitErr("get", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	p, err := a.svc.Get(cmd.Context(), id)
	if err != nil {
		exitErr("get", err)
	}

	printJSON(cmd, p)
}
