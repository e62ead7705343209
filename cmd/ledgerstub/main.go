package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellar/go/network"

	"redvalid/internal/ledgerstub"
	"redvalid/internal/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr       string
		passphrase string
		fund       []string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:          "ledgerstub",
		Short:        "In-memory Horizon-compatible ledger for development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Init(log.Options{Verbose: verbose}); err != nil {
				return err
			}
			defer log.Close()

			l := ledgerstub.New(passphrase)
			for _, a := range fund {
				if err := l.Fund(a, ledgerstub.FriendbotStroops); err != nil {
					return fmt.Errorf("fund %s: %w", a, err)
				}
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           ledgerstub.NewServer(l),
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			fmt.Fprintf(os.Stderr, "ledgerstub listening on %s (%s)\n", addr, l.Passphrase())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&passphrase, "passphrase", network.TestNetworkPassphrase, "network passphrase")
	cmd.Flags().StringSliceVar(&fund, "fund", nil, "accounts to create at startup")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every request")
	return cmd
}
