package bind

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The spanner import starts the opencensus view worker at init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}
