package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"redvalid/internal/app"
	"redvalid/internal/log"
)

var (
	home       string
	passphrase string
	jsonOut    bool
	verbose    bool

	cfg    *app.Config
	appCtx *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:           "redvalid",
		Short:         "Anchor co-signed content attestations on Stellar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = app.Load(home); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}
			if err := log.Init(log.Options{
				Verbose:       verbose || cfg.Log.Verbose,
				JSONFormat:    cfg.Log.JSON,
				DebugDir:      cfg.LogDir(),
				RetentionDays: cfg.Log.RetentionDays,
			}); err != nil {
				return err
			}
			appCtx = app.New(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default $REDVALID_HOME or ~/.redvalid)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the service seed")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON (default when stdout is not a terminal)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		keygenCmd(),
		addressCmd(),
		prepareCmd(),
		signCmd(),
		submitCmd(),
		verifyCmd(),
		reconcileCmd(),
		statusCmd(),
		listCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// withWire unlocks the identity, builds the dependency graph and runs fn.
func withWire(fn func(w *app.Wire) error) error {
	pass := passphrase
	if cfg.Service.IdentitySource != app.SourceEnv && pass == "" {
		var err error
		if pass, err = prompt("Passphrase: "); err != nil {
			return err
		}
	}
	id, err := appCtx.Identity(pass)
	if err != nil {
		return err
	}
	w, err := app.NewWire(cfg, id)
	if err != nil {
		return err
	}
	defer w.Close()
	return fn(w)
}

// prompt reads a secret from the terminal without echo.
func prompt(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s no terminal to prompt on; use --passphrase", strings.TrimSuffix(label, ": "))
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// emit prints v as JSON or calls human for terminal output.
func emit(w io.Writer, v any, human func(io.Writer)) error {
	if jsonOut || !isTerminal(os.Stdout) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(w)
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readArg returns arg, or stdin when arg is "-".
func readArg(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return strings.TrimSpace(arg), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
