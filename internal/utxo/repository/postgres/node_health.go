package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

const (
	upsertNodeHealthQuery = `INSERT INTO node_health (node_id, last_seen, tip_height, tip_hash, rpc_latency_ms, status, last_error)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (node_id) DO UPDATE SET
    last_seen = EXCLUDED.last_seen,
    tip_height = EXCLUDED.tip_height,
    tip_hash = EXCLUDED.tip_hash,
    rpc_latency_ms = EXCLUDED.rpc_latency_ms,
    status = EXCLUDED.status,
    last_error = EXCLUDED.last_error`

	selectNodeHealthQuery = `SELECT node_id, last_seen, tip_height, tip_hash, rpc_latency_ms, status, last_error
FROM node_health
WHERE node_id = $1`
)

func (r *Repository) UpsertNodeHealth(ctx context.Context, h model.NodeHealth) (err error) {
	defer r.observe("upsert_node_health", time.Now(), &err)

	var tipHeight sql.NullInt64
	if h.TipHeight != nil {
		tipHeight = sql.NullInt64{Int64: *h.TipHeight, Valid: true}
	}
	if _, err = r.q.ExecContext(ctx, upsertNodeHealthQuery,
		h.NodeID, h.LastSeen.UTC(), tipHeight, nullString(h.TipHash),
		h.Latency.Milliseconds(), string(h.Status), nullString(h.LastError),
	); err != nil {
		return fmt.Errorf("upsert node %s health: %w", h.NodeID, err)
	}
	return nil
}

func (r *Repository) NodeHealth(ctx context.Context, nodeID string) (h model.NodeHealth, err error) {
	defer r.observe("node_health", time.Now(), &err)

	var (
		tipHeight sql.NullInt64
		tipHash   sql.NullString
		latencyMS int64
		status    string
		lastError sql.NullString
	)
	err = r.q.QueryRowContext(ctx, selectNodeHealthQuery, nodeID).
		Scan(&h.NodeID, &h.LastSeen, &tipHeight, &tipHash, &latencyMS, &status, &lastError)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NodeHealth{}, model.ErrNotFound
	}
	if err != nil {
		return model.NodeHealth{}, fmt.Errorf("query node %s health: %w", nodeID, err)
	}
	if tipHeight.Valid {
		h.TipHeight = &tipHeight.Int64
	}
	h.TipHash = tipHash.String
	h.Latency = time.Duration(latencyMS) * time.Millisecond
	h.Status = model.NodeStatus(status)
	h.LastError = lastError.String
	return h, nil
}
