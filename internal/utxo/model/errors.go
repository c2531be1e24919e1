package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a job lifecycle action is not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid job transition")
	// ErrReorgTooDeep is returned when a fork point lies deeper than the configured reorg depth.
	ErrReorgTooDeep = errors.New("reorg exceeds maximum depth")
	// ErrTipMoved is returned when the chain tip changed between planning and applying a block unit.
	ErrTipMoved = errors.New("chain tip moved")
)

// TransientNodeError wraps a node failure that may succeed on retry.
type TransientNodeError struct {
	Op  string
	Err error
}

func (e *TransientNodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Op, e.Err)
}

func (e *TransientNodeError) Unwrap() error {
	return e.Err
}

// ConsistencyError reports a violated ledger invariant. It is never retried.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return "ledger consistency: " + e.Reason
}

// Inconsistent builds a ConsistencyError from a format string.
func Inconsistent(format string, args ...any) error {
	return &ConsistencyError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when an output is created twice with different contents.
type ConflictError struct {
	Outpoint Outpoint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("ledger consistency: conflicting output %s", e.Outpoint)
}

// ReorgDepthError describes a fork deeper than allowed.
type ReorgDepthError struct {
	TipHeight int64
	Depth     int64
	Limit     int64
}

func (e *ReorgDepthError) Error() string {
	return fmt.Sprintf("fork %d blocks below tip %d exceeds limit %d", e.Depth, e.TipHeight, e.Limit)
}

func (e *ReorgDepthError) Unwrap() error {
	return ErrReorgTooDeep
}

// TransitionError describes a rejected job lifecycle action.
type TransitionError struct {
	JobID  string
	From   JobStatus
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("job %s: cannot %s from %s", e.JobID, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IsTransient reports whether err is a retryable node failure.
func IsTransient(err error) bool {
	var nodeErr *TransientNodeError
	return errors.As(err, &nodeErr)
}

// IsFatal reports whether err must stop the job that produced it.
func IsFatal(err error) bool {
	var (
		consistency *ConsistencyError
		conflict    *ConflictError
	)
	return errors.As(err, &consistency) || errors.As(err, &conflict) || errors.Is(err, ErrReorgTooDeep)
}
