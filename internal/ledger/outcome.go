package ledger

import "golang.org/x/crypto/blake2b"

// sides is the number of outcomes; acceptLimit is the largest multiple of
// sides not above 256, so bytes below it map uniformly.
const (
	sides       = MaxChoice - MinChoice + 1
	acceptLimit = 256 / sides * sides
)

// RollOutcome maps a 32-byte random value to an outcome in [1,6].
//
// Bytes are scanned in order and the first one below 252 is reduced mod 6.
// When every byte is rejected the value is re-hashed with blake2b-256 and
// the scan repeats, so the result is exactly uniform and deterministic for
// a given input.
func RollOutcome(randomness [32]byte) uint8 {
	buf := randomness

	for {
		for _, b := range buf {
			if int(b) < acceptLimit {
				return uint8(int(b)%sides + MinChoice)
			}
		}

		buf = blake2b.Sum256(buf[:])
	}
}
