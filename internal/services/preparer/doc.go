// Package preparer builds service-signed attestation transactions.
//
// Prepare reads a fresh sequence number through the allocator (the only
// blocking step), assembles the transaction, records its id, and signs it as
// the service. The returned envelope still lacks the counterparty's
// signature. Prepare never retries.
package preparer
