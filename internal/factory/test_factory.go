package factory

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partyarcade/internal/dependencies/mocks"
	"github.com/mcoot/partyarcade/internal/services/auth"
	"github.com/mcoot/partyarcade/internal/storage/memory"
	"github.com/mcoot/partyarcade/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App with mocked time and randomness, in-memory
// storage and the cheapest password hashing
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(testutil.FixedTime)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(memory.New(), mockClock, mockRandom, auth.Config{HashCost: bcrypt.MinCost}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
