// Package sequence hands out transaction sequence numbers for an account.
//
// Every Next call reads the account's current sequence from the network
// while holding that account's lock, then issues one past the larger of the
// network value and the last number it issued. Concurrent callers for the
// same account therefore never receive the same number. Calls for different
// accounts do not contend.
package sequence
