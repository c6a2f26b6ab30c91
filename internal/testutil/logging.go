package testutil

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// LogContext returns a context carrying a debug-level text logger that writes
// to buf. Set SYMPARAM_TEST_LOGS=true to also print the captured output when
// the test finishes.
func LogContext(t *testing.T, buf *SafeBuffer) context.Context {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if os.Getenv("SYMPARAM_TEST_LOGS") == "true" {
		t.Cleanup(func() {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		})
	}
	return ctxlog.WithLogger(context.Background(), logger)
}

// AssertLogged checks that every substring appears in the captured log output.
func AssertLogged(t *testing.T, buf *SafeBuffer, substrings ...string) {
	t.Helper()

	out := buf.String()
	for _, s := range substrings {
		require.True(t, strings.Contains(out, s), "expected log output to contain %q", s)
	}
}
