package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/form"
	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/registry"
	"github.com/rcliao/person-registry/internal/store"
)

const shellHelp = `commands:
  set <field> <value>   fields: nationalId firstNames lastNames birthDate gender city
  check                 validate the draft without saving it
  submit                register the draft, or save the record being edited
  edit <id>             load a record into the form
  cancel                discard the draft and stop editing
  delete <id>           delete a record
  list                  show all records
  show                  show the draft and its errors
  quit`

func init() {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive registration form",
		Long:  "Fill in, submit, edit and delete records from an interactive prompt. With --memory, records live only for the session.",
		Run:   runShellCmd,
	}

	cmd.Flags().Bool("memory", false, "Keep records in memory for this session only")

	RootCmd.AddCommand(cmd)
}

func runShellCmd(cmd *cobra.Command, args []string) {
	memory, _ := cmd.Flags().GetBool("memory")

	var svc form.Service
	if memory {
		svc = registry.New(store.NewMemoryStore())
	} else {
		a := mustOpenApp(cmd)
		defer a.Close()
		svc = a.svc
	}

	if err := runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), form.NewController(svc)); err != nil {
		exitErr("shell", err)
	}
}

// runShell reads commands from in until quit or EOF.
func runShell(ctx context.Context, in io.Reader, out io.Writer, c *form.Controller) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt(c.State()))
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}

		ev, err := form.ParseCommand(sc.Text())
		if errors.Is(err, form.ErrEmptyCommand) {
			continue
		}
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		switch ev.Kind {
		case form.KindQuit:
			return nil
		case form.KindHelp:
			fmt.Fprintln(out, shellHelp)
		case form.KindShow:
			renderDraft(out, c.State())
		case form.KindList:
			persons, err := c.Records(ctx)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			if len(persons) == 0 {
				fmt.Fprintln(out, "no records")
				continue
			}
			writeTable(out, persons)
		default:
			s := c.Dispatch(ctx, ev)
			if s.Notice != "" {
				fmt.Fprintln(out, s.Notice)
			}
			renderErrors(out, s)
		}
	}
}

func prompt(s form.State) string {
	if s.Mode == form.Editing {
		return fmt.Sprintf("registry[edit %d]> ", s.EditingID)
	}
	return "registry> "
}

func renderDraft(out io.Writer, s form.State) {
	for _, f := range model.Fields {
		v, _ := s.Draft.Get(f)
		fmt.Fprintf(out, "  %-11s %s\n", f, v)
	}
	renderErrors(out, s)
}

func renderErrors(out io.Writer, s form.State) {
	for _, f := range model.Fields {
		if msg, ok := s.Errors[f]; ok {
			fmt.Fprintf(out, "  ! %s: %s\n", f, msg)
		}
	}
}
