package crypto

import (
	"sync"
	"sync/atomic"
)

// SelfTest caches the outcome of a known-answer test. The check runs at most
// once per process; later calls return the cached result.
type SelfTest struct {
	once   sync.Once
	passed bool
	runs   atomic.Int32
}

// Result runs check on first use and returns the cached outcome afterwards.
// A failure is logged at error level under the given primitive name.
func (s *SelfTest) Result(name string, check func() bool) bool {
	s.once.Do(func() {
		s.runs.Add(1)
		s.passed = check()

		logger := NewLogger("crypto", "SelfTest").WithField("primitive", name)
		if s.passed {
			logger.Info("Self-test passed")
		} else {
			logger.Error("Self-test failed: primitive must not be used")
		}
	})
	return s.passed
}

// Runs reports how many times the check executed (0 or 1).
func (s *SelfTest) Runs() int {
	return int(s.runs.Load())
}
