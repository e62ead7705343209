package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"redvalid/internal/app"
	"redvalid/internal/digest"
	"redvalid/internal/domain"
)

type digestFlags struct {
	file     string
	url      string
	reporter string
}

func (f *digestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "hash the content of this file")
	cmd.Flags().StringVar(&f.url, "url", "", "reported link (with --reporter)")
	cmd.Flags().StringVar(&f.reporter, "reporter", "", "reporter identifier (with --url)")
}

// resolve returns the digest from exactly one of arg, --file or --url/--reporter.
func (f *digestFlags) resolve(arg string) (domain.Digest, error) {
	sources := 0
	for _, set := range []bool{arg != "", f.file != "", f.url != "" || f.reporter != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return domain.Digest{}, errors.New("give exactly one of a hex digest, --file, or --url with --reporter")
	}
	switch {
	case f.file != "":
		return digest.FromFile(f.file)
	case f.url != "" || f.reporter != "":
		return digest.FromReport(f.url, f.reporter)
	}
	return digest.Parse(arg)
}

func prepareCmd() *cobra.Command {
	var df digestFlags
	cmd := &cobra.Command{
		Use:   "prepare <counterparty> [digest-hex]",
		Short: "Build a service-signed attestation for the counterparty to co-sign",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 2 {
				arg = args[1]
			}
			d, err := df.resolve(arg)
			if err != nil {
				return err
			}
			return withWire(func(w *app.Wire) error {
				tx, err := w.Attestations.Prepare(cmd.Context(), domain.Address(args[0]), d)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), tx, func(out io.Writer) {
					fmt.Fprintf(out, "Transaction: %s\nDigest:      %s\nSequence:    %d\n\n%s\n",
						tx.ID, tx.Digest.Hex(), tx.Sequence, tx.Envelope)
				})
			})
		},
	}
	df.register(cmd)
	return cmd
}
