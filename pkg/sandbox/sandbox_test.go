package sandbox

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstack-labs/stackaudit/pkg/audit"
)

type recordingRunner struct {
	result *audit.ExecResult
	err    error
	calls  [][]string
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) (*audit.ExecResult, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if len(args) > 0 && args[0] == "rm" {
		return &audit.ExecResult{ExitCode: 0}, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func TestRunBuildsIsolatedContainerArgs(t *testing.T) {
	runner := &recordingRunner{result: &audit.ExecResult{ExitCode: 0}}
	sb := New(runner.run)

	result, err := sb.Run(context.Background(), RunSpec{
		Image:       "nginx:alpine",
		MountSource: "/repo/.config/nginx",
		MountTarget: "/etc/nginx/conf.d",
		Command:     []string{"nginx", "-t", "-c", "/etc/nginx/nginx.conf"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	require.Len(t, runner.calls, 2)

	runCall := runner.calls[0]
	assert.Equal(t, "docker", runCall[0])
	assert.Contains(t, runCall, "--network")
	assert.Contains(t, runCall, "none")
	assert.Contains(t, runCall, "/repo/.config/nginx:/etc/nginx/conf.d:ro")
	assert.Equal(t, []string{"nginx", "-t", "-c", "/etc/nginx/nginx.conf"}, runCall[len(runCall)-4:])
}

func TestRunAlwaysRemovesContainer(t *testing.T) {
	runner := &recordingRunner{result: &audit.ExecResult{ExitCode: 1, Stderr: "nginx: configuration file test failed"}}
	sb := New(runner.run)

	_, err := sb.Run(context.Background(), RunSpec{Image: "nginx:alpine", Command: []string{"nginx", "-t"}})
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	rmCall := runner.calls[1]
	assert.Equal(t, "docker", rmCall[0])
	assert.Equal(t, "rm", rmCall[1])
	assert.Equal(t, "-f", rmCall[2])
	assert.True(t, strings.HasPrefix(rmCall[3], "stackaudit-"))
}

func TestRunRemovesContainerOnFailure(t *testing.T) {
	runner := &recordingRunner{err: fmt.Errorf("docker: %w", audit.ErrToolTimedOut)}
	sb := New(runner.run)

	_, err := sb.Run(context.Background(), RunSpec{Image: "mariadb:11", Command: []string{"mariadbd", "--help"}})

	assert.ErrorIs(t, err, ErrDockerUnavailable)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, "rm", runner.calls[1][1])
}

func TestRunDockerMissing(t *testing.T) {
	runner := &recordingRunner{err: fmt.Errorf("docker: %w", audit.ErrToolNotFound)}
	sb := New(runner.run)

	_, err := sb.Run(context.Background(), RunSpec{Image: "postgres:16-alpine"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDockerUnavailable)
	assert.Contains(t, err.Error(), "install docker")
}

func TestRunUniqueContainerNames(t *testing.T) {
	runner := &recordingRunner{result: &audit.ExecResult{ExitCode: 0}}
	sb := New(runner.run)

	_, err := sb.Run(context.Background(), RunSpec{Image: "nginx:alpine"})
	require.NoError(t, err)
	_, err = sb.Run(context.Background(), RunSpec{Image: "nginx:alpine"})
	require.NoError(t, err)

	firstName := runner.calls[1][3]
	secondName := runner.calls[3][3]
	assert.NotEqual(t, firstName, secondName)
}
