// Package identity manages creation, encryption and loading of the service
// identity.
//
// It enforces passphrase policy, generates the Stellar keypair, and persists
// the secret seed via a domain.SeedStore (file keystore or OS keyring).
package identity
