// Package submitter broadcasts validated envelopes to the ledger network.
//
// Submit performs no validation of its own; ValidateAndSubmit runs the
// validator first and never touches the network on a rejection. Every
// broadcast is bounded by the configured timeout. A timeout or transport
// failure is reported as a *types.NetworkError with Requery set: look the
// transaction up by id before doing anything else.
package submitter
