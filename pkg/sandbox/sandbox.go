// Package sandbox runs validation binaries inside short-lived, network-less
// docker containers so host installs of nginx or the database servers are
// never required.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var sandboxLog = logger.New("sandbox:run")

// ErrDockerUnavailable is reported when the docker CLI itself cannot be
// found or fails to respond in time.
var ErrDockerUnavailable = errors.New("docker is not available")

// RunSpec describes a single containerized invocation. The mount source is
// always bound read-only inside the container.
type RunSpec struct {
	Image       string
	MountSource string
	MountTarget string
	Command     []string
}

// Sandbox launches docker containers through an injected command runner.
type Sandbox struct {
	runner audit.CommandRunner
}

// New creates a sandbox backed by the given runner.
func New(runner audit.CommandRunner) *Sandbox {
	return &Sandbox{runner: runner}
}

// Run executes one invocation in a fresh container and returns the raw result.
// The container is force-removed on every exit path, including timeouts.
func (s *Sandbox) Run(ctx context.Context, spec RunSpec) (*audit.ExecResult, error) {
	name := fmt.Sprintf("stackaudit-%d", time.Now().UnixNano())

	args := []string{
		"run",
		"--name", name,
		"--network", "none",
	}
	if spec.MountSource != "" {
		args = append(args, "-v", fmt.Sprintf("%s:%s:ro", spec.MountSource, spec.MountTarget))
	}
	args = append(args, spec.Image)
	args = append(args, spec.Command...)

	defer func() {
		// Cleanup must survive the parent context being cancelled.
		cleanupCtx := context.WithoutCancel(ctx)
		if _, err := s.runner(cleanupCtx, "docker", "rm", "-f", name); err != nil {
			sandboxLog.Printf("Failed to remove container %s: %v", name, err)
		}
	}()

	sandboxLog.Printf("Running %s in %s", spec.Command, spec.Image)
	result, err := s.runner(ctx, "docker", args...)
	if err != nil {
		if errors.Is(err, audit.ErrToolNotFound) {
			return nil, fmt.Errorf("%w: install docker to validate service configurations", ErrDockerUnavailable)
		}
		if errors.Is(err, audit.ErrToolTimedOut) {
			return nil, fmt.Errorf("%w: container did not finish in time", ErrDockerUnavailable)
		}
		return nil, err
	}
	return result, nil
}
