package protocol

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the debounce queue and diagnostics worker pool leave no
// goroutines running once their tests complete.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
