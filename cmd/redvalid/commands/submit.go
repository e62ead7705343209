package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"redvalid/internal/app"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <prepared-id> <envelope|->",
		Short: "Validate a co-signed envelope and broadcast it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domaintypes.ParseTransactionID(args[0])
			if err != nil {
				return err
			}
			env, err := readArg(cmd, args[1])
			if err != nil {
				return err
			}
			return withWire(func(w *app.Wire) error {
				rec, err := w.Attestations.Submit(cmd.Context(), id, env)
				var ne *domaintypes.NetworkError
				if errors.As(err, &ne) && ne.Requery {
					return fmt.Errorf("%w\nrun: redvalid reconcile %s", err, id)
				}
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), rec, func(out io.Writer) { printRecord(out, rec) })
			})
		},
	}
}

func printRecord(w io.Writer, r domain.AttestationRecord) {
	fmt.Fprintf(w, "Transaction:  %s\n", r.TransactionID)
	fmt.Fprintf(w, "Digest:       %s\n", r.Digest.Hex())
	fmt.Fprintf(w, "Counterparty: %s\n", r.Counterparty)
	fmt.Fprintf(w, "Status:       %s\n", r.Status)
	if r.Ledger != 0 {
		fmt.Fprintf(w, "Ledger:       %d\n", r.Ledger)
	}
	if r.Failure != "" {
		fmt.Fprintf(w, "Failure:      %s\n", r.Failure)
	}
	fmt.Fprintf(w, "Updated:      %s\n", r.UpdatedAt.Format("2006-01-02 15:04:05Z07:00"))
}
