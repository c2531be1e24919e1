//go:build !zmq

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// startBlockSignal is unavailable without the zmq build tag; jobs fall back to polling.
func startBlockSignal(_ context.Context, addr string, _ *zap.Logger) (<-chan struct{}, error) {
	if addr != "" {
		return nil, errors.New("zmq block signal requires a build with -tags zmq")
	}
	return nil, nil
}
