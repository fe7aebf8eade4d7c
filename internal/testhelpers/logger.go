// Package testhelpers holds fixtures shared by package tests.
package testhelpers

import (
	"path/filepath"
	"testing"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
)

// NewTestLogger returns a debug-level logger writing into the test's temp
// dir, so failing tests keep their log next to them.
func NewTestLogger(t *testing.T) infralogger.Logger {
	t.Helper()

	log, err := infralogger.New(infralogger.Config{
		Level:       "debug",
		OutputPaths: []string{filepath.Join(t.TempDir(), "test.log")},
	})
	if err != nil {
		t.Logf("falling back to no-op logger: %v", err)
		return infralogger.NewNop()
	}
	return log
}
