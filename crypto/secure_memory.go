package crypto

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// SecureWipe overwrites a byte slice holding key material or buffered
// plaintext. It returns an error if the slice is nil.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	zeros := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, zeros)
	copy(data, zeros)

	runtime.KeepAlive(data)
	runtime.KeepAlive(zeros)

	return nil
}

// ZeroBytes erases a byte slice, ignoring the nil case.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}

// WipeWords32 zeroes every row of a 32-bit round-key schedule.
func WipeWords32(schedule [][]uint32) {
	for _, row := range schedule {
		for i := range row {
			row[i] = 0
		}
		runtime.KeepAlive(row)
	}
}

// WipeWords64 zeroes a 64-bit chaining state.
func WipeWords64(words []uint64) {
	for i := range words {
		words[i] = 0
	}
	runtime.KeepAlive(words)
}
