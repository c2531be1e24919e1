// Package health probes the node and records its liveness. It never affects indexing.
package health

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		UpsertNodeHealth(ctx context.Context, h model.NodeHealth) error
		NodeHealth(ctx context.Context, nodeID string) (model.NodeHealth, error)
	}
	Source interface {
		// TimedTip reports the tip and the round-trip time of the rpc calls behind it.
		TimedTip(ctx context.Context) (model.NodeTip, time.Duration, error)
	}
	Metrics interface {
		ObserveProbe(h model.NodeHealth, latency time.Duration)
	}
	// StatusSink receives the serving status derived from each probe, e.g. a grpc health server.
	StatusSink interface {
		SetServingStatus(service string, servingStatus healthpb.HealthCheckResponse_ServingStatus)
	}
)
