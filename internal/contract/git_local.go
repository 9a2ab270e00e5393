package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultGitTimeout bounds every git invocation unless configured otherwise.
const DefaultGitTimeout = 10 * time.Second

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	Timeout time.Duration
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{Timeout: DefaultGitTimeout}
}

// Run executes a git command and returns its stdout.
// A non-zero exit wraps ErrGitExit; a timeout wraps context.DeadlineExceeded.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("git %s timed out after %s: %w", args[0], c.Timeout, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("%w: git %s in %q: %s", ErrGitExit, args[0], repoPath, stderr)
	}
	return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetLastCommitDate implements the GitClient interface.
func (c *LocalGitClient) GetLastCommitDate(ctx context.Context, repoPath string, path string) (string, error) {
	out, err := c.query(ctx, repoPath, "log", "-1", "--format=%ci", "--", path)
	if err != nil {
		return "", err
	}
	return out, nil
}

// GetCommitCount implements the GitClient interface.
func (c *LocalGitClient) GetCommitCount(ctx context.Context, repoPath string, path string) (int, error) {
	out, err := c.query(ctx, repoPath, "rev-list", "--count", "HEAD", "--", path)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("invalid commit count %q: %w", out, err)
	}
	return count, nil
}

// query runs a single-value git query. A non-zero exit or blank output
// yields ErrNoGitResult.
func (c *LocalGitClient) query(ctx context.Context, repoPath string, args ...string) (string, error) {
	out, err := c.Run(ctx, repoPath, args...)
	if errors.Is(err, ErrGitExit) {
		return "", ErrNoGitResult
	}
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(string(out))
	if value == "" {
		return "", ErrNoGitResult
	}
	return value, nil
}
