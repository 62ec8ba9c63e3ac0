package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/jira-tui/internal/model"
)

// CLI provides a clean interface for running sessions in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes a session with no input and returns stdout, stderr, and exit code.
// Args should not include "jira" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes a session reading stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader
	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"jira", "--cwd", r.Dir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// Session runs lines as one scripted session and fails the test on a
// non-zero exit code. Returns stdout.
func (r *CLI) Session(lines ...string) string {
	r.t.Helper()

	input := strings.Join(lines, "\n") + "\n"

	stdout, stderr, code := r.RunWithInput(input)
	if code != 0 {
		r.t.Fatalf("session failed with exit code %d\nstderr: %s", code, stderr)
	}

	return stdout
}

// MustFail executes the CLI and fails the test if it succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// DBPath returns the default database path.
func (r *CLI) DBPath() string {
	return filepath.Join(r.Dir, "data", "db.json")
}

// ReadDB decodes the database file.
func (r *CLI) ReadDB() *model.State {
	r.t.Helper()

	content, err := os.ReadFile(r.DBPath())
	if err != nil {
		r.t.Fatalf("failed to read database: %v", err)
	}

	state := model.NewState()

	err = json.Unmarshal(content, state)
	if err != nil {
		r.t.Fatalf("failed to decode database: %v", err)
	}

	return state
}

// WriteDB writes raw content to the database file.
func (r *CLI) WriteDB(content string) {
	r.t.Helper()

	err := os.MkdirAll(filepath.Dir(r.DBPath()), 0o750)
	if err != nil {
		r.t.Fatalf("failed to create data dir: %v", err)
	}

	err = os.WriteFile(r.DBPath(), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write database: %v", err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
