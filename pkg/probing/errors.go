package probing

import (
	"errors"
	"fmt"
)

// ErrExited marks a target that is gone by the time we attach.
var ErrExited = errors.New("process has exited")

// DiscoveryError means the host-level registry of targets could not be read.
type DiscoveryError struct {
	Host string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover targets on %s: %v", e.Host, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// TargetUnavailableError means attaching to one target failed.
type TargetUnavailableError struct {
	PID int32
	Err error
}

func (e *TargetUnavailableError) Error() string {
	return fmt.Sprintf("target %d unavailable: %v", e.PID, e.Err)
}

func (e *TargetUnavailableError) Unwrap() error { return e.Err }
