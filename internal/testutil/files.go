// Package testutil holds fixture helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// WriteFiles writes every relative path in files under a fresh temporary
// directory and returns that directory. Subdirectories are created as needed.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// Table renders an IES-style comma separated table with a header row.
func Table(header []string, rows ...[]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(append([][]string{header}, rows...)); err != nil {
		panic(err)
	}
	return buf.String()
}

// Context returns a context carrying a debug logger that writes into the
// returned buffer. Set TOSPARSER_TEST_LOGS=true to dump it after the test.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("TOSPARSER_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}
