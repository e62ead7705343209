package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"redvalid/internal/app"
	"redvalid/internal/domain"
)

func keygenCmd() *cobra.Command {
	var (
		importSeed bool
		fund       bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create the service identity and store its seed encrypted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Service.IdentitySource == app.SourceEnv {
				return fmt.Errorf("identity_source is %q: set %s instead", app.SourceEnv, app.EnvSecret)
			}
			pass := passphrase
			if pass == "" {
				var err error
				if pass, err = prompt("New passphrase: "); err != nil {
					return err
				}
			}

			var (
				id  domain.IdentityProvider
				err error
			)
			if importSeed {
				seed, perr := prompt("Seed: ")
				if perr != nil {
					return perr
				}
				id, err = appCtx.IDs.ImportIdentity(pass, seed)
			} else {
				id, err = appCtx.IDs.GenerateIdentity(pass)
			}
			if err != nil {
				return err
			}
			if err := appCtx.Remember(id, time.Now()); err != nil {
				return err
			}

			funded := false
			if fund {
				ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
				defer cancel()
				if err := app.NewHorizon(cfg).Fund(ctx, id.Address()); err != nil {
					return fmt.Errorf("identity saved but funding failed: %w", err)
				}
				funded = true
			}

			out := struct {
				Address domain.Address `json:"address"`
				Source  string         `json:"source"`
				Funded  bool           `json:"funded"`
			}{id.Address(), cfg.Service.IdentitySource, funded}
			return emit(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "Identity created.\nAddress: %s\n", out.Address)
				if funded {
					fmt.Fprintln(w, "Funded via friendbot.")
				}
			})
		},
	}
	cmd.Flags().BoolVar(&importSeed, "import", false, "import an existing seed instead of generating one")
	cmd.Flags().BoolVar(&fund, "fund", false, "fund the new account via friendbot")
	return cmd
}

func addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the service account address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := appCtx.Address()
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), map[string]domain.Address{"address": addr}, func(w io.Writer) {
				fmt.Fprintln(w, addr)
			})
		},
	}
}
