package store

import "crypto/subtle"

// wipe overwrites each buffer with zeros once the caller is done with it.
func wipe(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	}
}
