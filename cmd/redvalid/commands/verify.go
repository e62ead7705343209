package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"redvalid/internal/app"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

const verifyConcurrency = 4

type verifyResult struct {
	ID domain.TransactionID `json:"id"`
	domain.Verification
	Error string `json:"error,omitempty"`
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <tx-hash>...",
		Short: "Check attestations against the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWire(func(w *app.Wire) error {
				results := make([]verifyResult, len(args))
				g, ctx := errgroup.WithContext(cmd.Context())
				g.SetLimit(verifyConcurrency)
				for i, arg := range args {
					g.Go(func() error {
						id, err := domaintypes.ParseTransactionID(arg)
						if err != nil {
							results[i] = verifyResult{ID: domain.TransactionID(arg), Error: err.Error()}
							return nil
						}
						v, err := w.Attestations.Verify(ctx, id)
						results[i] = verifyResult{ID: id, Verification: v}
						if err != nil {
							results[i].Error = err.Error()
						}
						return nil
					})
				}
				_ = g.Wait()
				if err := emit(cmd.OutOrStdout(), results, func(out io.Writer) {
					for _, r := range results {
						printVerification(out, r)
					}
				}); err != nil {
					return err
				}
				return verifyFailures(results)
			})
		},
	}
}

// verifyFailures reports lookups that ended in an error. A pending or failed
// verification state is an answer, not a lookup failure.
func verifyFailures(results []verifyResult) error {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d lookups failed", n, len(results))
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <prepared-id>",
		Short: "Resolve a submission whose outcome was unknown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWire(func(w *app.Wire) error {
				id, err := domaintypes.ParseTransactionID(args[0])
				if err != nil {
					return err
				}
				v, err := w.Attestations.Reconcile(cmd.Context(), id)
				if err != nil {
					return err
				}
				r := verifyResult{ID: id, Verification: v}
				return emit(cmd.OutOrStdout(), r, func(out io.Writer) { printVerification(out, r) })
			})
		},
	}
}

func printVerification(w io.Writer, r verifyResult) {
	if r.Error != "" {
		fmt.Fprintf(w, "%s  ERROR  %s\n", r.ID, r.Error)
		return
	}
	fmt.Fprintf(w, "%s  %s\n", r.ID, r.State)
	if r.Record != nil {
		fmt.Fprintf(w, "  ledger %d at %s, digest %s\n",
			r.Record.Ledger, r.Record.CreatedAt.Format("2006-01-02 15:04:05Z07:00"), r.Record.Digest.Hex())
	}
}
