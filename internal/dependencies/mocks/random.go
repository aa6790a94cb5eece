package mocks

import (
	"sync"

	"github.com/mcoot/partyarcade/internal/dependencies/random"
)

// MockRandom replays queued results and is safe for concurrent use.
// Once a queue is drained Intn returns 0 and String falls back to a
// deterministic sequence so that code generation never loops forever.
type MockRandom struct {
	mu sync.Mutex

	intn    []int
	strings []string
	counter int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result modulo n, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.intn) == 0 || n <= 0 {
		return 0
	}
	v := r.intn[0]
	r.intn = r.intn[1:]
	return v % n
}

// String returns the next queued result, or a generated one when the queue is empty
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.strings) > 0 {
		v := r.strings[0]
		r.strings = r.strings[1:]
		return v
	}
	if length <= 0 || alphabet == "" {
		return ""
	}
	r.counter++
	out := make([]byte, length)
	n := r.counter
	for i := length - 1; i >= 0; i-- {
		out[i] = alphabet[n%len(alphabet)]
		n /= len(alphabet)
	}
	return string(out)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intn = append(r.intn, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}
