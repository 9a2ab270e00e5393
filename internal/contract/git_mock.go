package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for GitClient.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{}

// Run mocks GitClient.Run. Arguments are flattened so expectations
// can list them individually.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	var out []byte
	if v := ret.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, ret.Error(1)
}

// GetRepoHash mocks GitClient.GetRepoHash.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	args := m.Called(ctx, repoPath)
	return args.String(0), args.Error(1)
}

// GetLastCommitDate mocks GitClient.GetLastCommitDate.
func (m *MockGitClient) GetLastCommitDate(ctx context.Context, repoPath string, path string) (string, error) {
	args := m.Called(ctx, repoPath, path)
	return args.String(0), args.Error(1)
}

// GetCommitCount mocks GitClient.GetCommitCount.
func (m *MockGitClient) GetCommitCount(ctx context.Context, repoPath string, path string) (int, error) {
	args := m.Called(ctx, repoPath, path)
	return args.Int(0), args.Error(1)
}
