//go:build basic || database

// Package integration contains end-to-end tests that drive the gradedash binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a gradedash binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the gradedash binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "gradedash-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "gradedash")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build gradedash: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

const currentFixture = `{
  "generated": "2024-01-15T00:00:00Z",
  "students": [
    {"name": "Jane Doe", "assignment": "w1", "repo": "w1-jane", "estimatedScore": 90,
     "build": {"status": "success"}, "todoCount": 0, "submittedAt": "2024-01-05T10:00:00Z",
     "stretchGoals": ["w1-readme"]},
    {"name": "Jane Doe", "assignment": "w2", "repo": "w2-jane", "estimatedScore": 70,
     "build": {"status": "failure", "errors": ["Program.cs(3,1): error CS1002: ; expected"]},
     "todoCount": 2, "submittedAt": "2024-01-12T10:00:00Z"},
    {"name": "Sam Smith", "assignment": "w1", "repo": "w1-sam", "estimatedScore": 80,
     "build": {"status": "success"}, "todoCount": 1, "needsReview": true,
     "submittedAt": "2024-01-06T10:00:00Z"}
  ]
}`

const historyFixture = `{
  "snapshots": [
    {"date": "2024-01-01T00:00:00Z", "assignment": "w1", "students": [
      {"name": "Jane Doe", "estimatedScore": 60, "build": {"status": "failure"}, "todoCount": 3}
    ]},
    {"date": "2024-01-08T00:00:00Z", "assignment": "w1", "students": [
      {"name": "Jane Doe", "estimatedScore": 90, "build": {"status": "success"}, "todoCount": 0}
    ]}
  ]
}`

// writeFixture writes current.json and history.json into a fresh directory.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "current.json"), []byte(currentFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte(historyFixture), 0o644))
	return dir
}

// runGradedash runs the binary with env added to the test process environment
// and returns its standard output.
func runGradedash(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = t.TempDir() // Keep config lookups away from the project root
	cmd.Env = append(os.Environ(), env...)
	var stderr []byte
	output, err := cmd.Output()
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr = exitErr.Stderr
	}
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s\nStderr: %s", cmd.String(), string(output), string(stderr))
	}
	return string(output), err
}
