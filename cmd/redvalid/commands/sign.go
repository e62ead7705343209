package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"redvalid/internal/protocol/attestation"
)

func signCmd() *cobra.Command {
	var seedEnv string
	cmd := &cobra.Command{
		Use:   "sign <envelope|->",
		Short: "Add a counterparty signature to a prepared envelope",
		Long: "Add a counterparty signature to a prepared envelope.\n\n" +
			"Counterparties normally sign in their own wallet; this command exists for\n" +
			"testing. The seed is read from the environment variable named by --seed-env\n" +
			"or prompted for.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := readArg(cmd, args[0])
			if err != nil {
				return err
			}
			seed := os.Getenv(seedEnv)
			if seedEnv == "" || seed == "" {
				if seed, err = prompt("Counterparty seed: "); err != nil {
					return err
				}
			}
			signed, err := attestation.SignEnvelope(env, cfg.Network.Passphrase, seed)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), map[string]string{"envelope": signed}, func(w io.Writer) {
				fmt.Fprintln(w, signed)
			})
		},
	}
	cmd.Flags().StringVar(&seedEnv, "seed-env", "", "environment variable holding the counterparty seed")
	return cmd
}
