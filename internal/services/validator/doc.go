// Package validator checks counterparty-signed envelopes before broadcast.
//
// It is a thin, side-effect-free wrapper over attestation.Validate bound to
// the service address and network passphrase.
package validator
