package tnlport

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that Dispatcher.Close actually tears down its
// worker goroutines: any test that starts a Dispatcher and forgets to
// close it, or a Close that doesn't, fails the whole package.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
