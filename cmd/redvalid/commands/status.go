package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/store"
)

func statusCmd() *cobra.Command {
	var df digestFlags
	cmd := &cobra.Command{
		Use:   "status [digest-hex]",
		Short: "Show the latest local record for a digest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			d, err := df.resolve(arg)
			if err != nil {
				return err
			}
			st, err := store.OpenAttestationStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, ok, err := st.LookupByDigest(d)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("digest %s: %w", d.Hex(), domaintypes.ErrNotFound)
			}
			return emit(cmd.OutOrStdout(), rec, func(w io.Writer) { printRecord(w, rec) })
		},
	}
	df.register(cmd)
	return cmd
}

func listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent local attestation records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.OpenAttestationStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(limit)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), recs, func(w io.Writer) {
				for _, r := range recs {
					fmt.Fprintf(w, "%s  %-9s  %s  %s\n", r.TransactionID, r.Status, r.Digest.Hex()[:16], r.Counterparty)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum records to show")
	return cmd
}
