package testing

import (
	"os"
	"testing"
)

// SkipUnlessIntegration skips the test unless MYGRAM_IT=1 is set. Integration
// tests need Docker for the backing containers and opt in explicitly.
func SkipUnlessIntegration(tb testing.TB) {
	tb.Helper()

	if os.Getenv("MYGRAM_IT") != "1" {
		tb.Skip("set MYGRAM_IT=1 to run integration tests")
	}
}
