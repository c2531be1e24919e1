package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

const (
	blockColumns = `height, hash, prev_hash, time, status, meta`

	selectBlockByHashQuery = `SELECT ` + blockColumns + ` FROM blocks WHERE hash = $1`

	selectCanonicalBlocksAboveQuery = `SELECT ` + blockColumns + `
FROM blocks
WHERE status = 'canonical' AND height > $1
ORDER BY height DESC`

	upsertBlockQuery = `INSERT INTO blocks (` + blockColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (hash) DO UPDATE SET status = EXCLUDED.status, meta = EXCLUDED.meta`

	updateBlockStatusQuery = `UPDATE blocks SET status = $2 WHERE hash = $1`
)

func (e executor) BlockByHash(ctx context.Context, hash string) (block model.Block, err error) {
	defer e.observe("block_by_hash", time.Now(), &err)

	block, err = scanBlock(e.q.QueryRowContext(ctx, selectBlockByHashQuery, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Block{}, model.ErrNotFound
	}
	if err != nil {
		return model.Block{}, fmt.Errorf("query block %s: %w", hash, err)
	}
	return block, nil
}

func (e executor) CanonicalBlocksAbove(ctx context.Context, height int64) (blocks []model.Block, err error) {
	defer e.observe("canonical_blocks_above", time.Now(), &err)

	rows, err := e.q.QueryContext(ctx, selectCanonicalBlocksAboveQuery, height)
	if err != nil {
		return nil, fmt.Errorf("query canonical blocks above %d: %w", height, err)
	}
	return collect(rows, func(rows *sql.Rows) (model.Block, error) {
		return scanBlock(rows)
	})
}

func (t *ledgerTx) UpsertBlock(ctx context.Context, block model.Block) (err error) {
	defer t.observe("upsert_block", time.Now(), &err)

	meta, err := json.Marshal(block.Meta)
	if err != nil {
		return fmt.Errorf("encode block meta: %w", err)
	}
	if _, err = t.q.ExecContext(ctx, upsertBlockQuery,
		block.Height, block.Hash, block.PrevHash, block.Time, string(block.Status), meta,
	); err != nil {
		return fmt.Errorf("upsert block %s: %w", block.Hash, err)
	}
	return nil
}

func (t *ledgerTx) SetBlockStatus(ctx context.Context, hash string, status model.BlockStatus) (err error) {
	defer t.observe("set_block_status", time.Now(), &err)

	res, err := t.q.ExecContext(ctx, updateBlockStatusQuery, hash, string(status))
	if err != nil {
		return fmt.Errorf("update block %s status: %w", hash, err)
	}
	return expectRows(res, 1, "block "+hash)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(row scanner) (model.Block, error) {
	var (
		block  model.Block
		status string
		meta   []byte
	)
	if err := row.Scan(&block.Height, &block.Hash, &block.PrevHash, &block.Time, &status, &meta); err != nil {
		return model.Block{}, err
	}
	block.Status = model.BlockStatus(status)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &block.Meta); err != nil {
			return model.Block{}, fmt.Errorf("decode block meta: %w", err)
		}
	}
	return block, nil
}
