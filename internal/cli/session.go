package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/render"
	"github.com/ppiankov/warisan/internal/session"
	"github.com/spf13/cobra"
)

// errQuit ends the interactive loop
var errQuit = errors.New("quit")

// sessionCmd represents the interactive session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive calculation session",
	Long: `Session reads commands from standard input, one per line, and keeps
every computation in a history until the session ends:

  compute --harta 12000000 --ayah --ibu --anak-laki 1
  history
  show 1
  delete 1
  clear
  export riwayat.txt --format yaml
  export - --format json
  explain
  help
  quit

History lists every entry and then details the most recent one. Export
writes to standard output when the path is "-". The history is discarded
on exit unless exported.`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	s, err := newSession(appConfig, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	r := &repl{
		session: s,
		cfg:     appConfig,
		out:     cmd.OutOrStdout(),
		now:     time.Now,
	}
	return r.run(cmd.InOrStdin())
}

// repl drives one session from line-oriented input
type repl struct {
	session *session.Session
	cfg     *model.Config
	out     io.Writer
	now     func() time.Time
}

func (r *repl) run(in io.Reader) error {
	fmt.Fprintf(r.out, "%s - interactive session (type 'help' for commands)\n", version)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			break
		}

		err := r.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			fmt.Fprintf(r.out, "✗ %v\n", err)
		}
	}
	return scanner.Err()
}

// exec parses and runs a single line
func (r *repl) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	root := r.commands()
	root.SetArgs(fields)
	root.SetOut(r.out)
	root.SetErr(r.out)
	return root.Execute()
}

// commands builds a fresh command tree so flags never leak between lines
func (r *repl) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "warisan>",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	var flags inputFlags
	compute := &cobra.Command{
		Use:   "compute",
		Short: "Allocate an estate and add it to the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			result, err := r.session.Compute(in)
			if err != nil {
				return err
			}
			if err := r.session.Renderer().WriteAllocation(r.out, in, result, r.cfg.Output.Verbose); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "✓ Saved as entry %d\n", r.session.Len())
			return nil
		},
	}
	flags.bind(compute)

	history := &cobra.Command{
		Use:   "history",
		Short: "List the history and show the latest entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := r.session.History()
			if len(entries) == 0 {
				fmt.Fprintln(r.out, "No history yet")
				return nil
			}
			if err := r.session.Renderer().WriteHistoryList(r.out, entries); err != nil {
				return err
			}
			last, _ := r.session.Last()
			fmt.Fprintf(r.out, "\n=== Riwayat %d === %s\n", len(entries), last.Time())
			return r.session.Renderer().WriteAllocation(r.out, last.Input, last.Result, r.cfg.Output.Verbose)
		},
	}

	show := &cobra.Command{
		Use:   "show <n>",
		Short: "Show history entry n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := entryIndex(args[0])
			if err != nil {
				return err
			}
			entry, err := r.session.Entry(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "=== Riwayat %d === %s\n", index+1, entry.Time())
			return r.session.Renderer().WriteAllocation(r.out, entry.Input, entry.Result, r.cfg.Output.Verbose)
		},
	}

	del := &cobra.Command{
		Use:   "delete <n>",
		Short: "Delete history entry n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := entryIndex(args[0])
			if err != nil {
				return err
			}
			if err := r.session.DeleteAt(index); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "✓ Deleted entry %d\n", index+1)
			return nil
		},
	}

	wipe := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.session.ClearHistory()
			fmt.Fprintln(r.out, "✓ History cleared")
			return nil
		},
	}

	var format string
	export := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the history to a file, or to stdout with -",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = resolveFormat(format, r.cfg)
			if !model.ValidFormat(format) {
				return fmt.Errorf("unsupported format %q", format)
			}
			if len(args) == 1 && args[0] == "-" {
				return r.session.WriteTo(r.out, format)
			}
			path := defaultExportPath(r.cfg, format, r.now())
			if len(args) == 1 {
				path = args[0]
			}
			if err := r.session.Export(path, format); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "✓ Exported %d entries to %s\n", r.session.Len(), path)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", "", "text, yaml or json")

	explain := &cobra.Command{
		Use:   "explain",
		Short: "Explain the inheritance rules used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.WriteExplanation(r.out)
		},
	}

	quit := &cobra.Command{
		Use:     "quit",
		Aliases: []string{"exit"},
		Short:   "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errQuit
		},
	}

	help := &cobra.Command{
		Use:   "help",
		Short: "List commands",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range root.Commands() {
				fmt.Fprintf(r.out, "  %-14s %s\n", c.Use, c.Short)
			}
		},
	}

	root.AddCommand(compute, history, show, del, wipe, export, explain, quit)
	root.SetHelpCommand(help)
	return root
}

// entryIndex converts a 1-based entry number to a ledger index
func entryIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid entry number %q", arg)
	}
	return n - 1, nil
}
