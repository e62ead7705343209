// Package commands defines the redvalid CLI and wires dependencies for subcommands.
//
// Commands
//
//   - keygen     Create (or import) the service identity, optionally funding it
//   - address    Print the service account address
//   - prepare    Build a service-signed attestation for a digest
//   - sign       Add a counterparty signature to an envelope (development aid)
//   - submit     Validate a co-signed envelope and broadcast it
//   - verify     Read attestations back from the ledger
//   - reconcile  Resolve a submission whose outcome was unknown
//   - status     Show the latest local record for a digest
//   - list       List recent local records
//
// # Implementation
//
// The root command loads the configuration and initialises logging before any
// subcommand runs. Commands that touch the ledger unlock the service identity
// and build the dependency graph with app.NewWire. Output is JSON when --json
// is set or stdout is not a terminal.
package commands
