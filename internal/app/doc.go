// Package app wires application dependencies for the CLI.
//
// Config is read from $REDVALID_HOME/config.yaml (default ~/.redvalid) with
// environment overrides. App exposes what is usable before the service
// identity is unlocked; Wire builds the stores, the Horizon client and the
// attestation services around an unlocked identity.
package app
