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
	transactionColumns = `txid, block_height, block_hash, position, time, status, decoded`

	selectTransactionQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE txid = $1`

	selectBlockTransactionsQuery = `SELECT ` + transactionColumns + `
FROM transactions
WHERE block_hash = $1 AND status = 'confirmed'
ORDER BY position`

	upsertTransactionQuery = `INSERT INTO transactions (` + transactionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (txid) DO UPDATE SET
    block_height = EXCLUDED.block_height,
    block_hash   = EXCLUDED.block_hash,
    position     = EXCLUDED.position,
    time         = EXCLUDED.time,
    status       = EXCLUDED.status,
    decoded      = EXCLUDED.decoded`

	updateTransactionStatusQuery = `UPDATE transactions
SET status = $2, block_height = NULL, block_hash = NULL, position = NULL
WHERE txid = $1`
)

func (e executor) Transaction(ctx context.Context, txid string) (tx model.Transaction, err error) {
	defer e.observe("transaction", time.Now(), &err)

	tx, err = scanTransaction(e.q.QueryRowContext(ctx, selectTransactionQuery, txid))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, model.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("query transaction %s: %w", txid, err)
	}
	return tx, nil
}

func (e executor) BlockTransactions(ctx context.Context, blockHash string) (txs []model.Transaction, err error) {
	defer e.observe("block_transactions", time.Now(), &err)

	rows, err := e.q.QueryContext(ctx, selectBlockTransactionsQuery, blockHash)
	if err != nil {
		return nil, fmt.Errorf("query transactions of block %s: %w", blockHash, err)
	}
	return collect(rows, func(rows *sql.Rows) (model.Transaction, error) {
		return scanTransaction(rows)
	})
}

func (t *ledgerTx) UpsertTransaction(ctx context.Context, tx model.Transaction) (err error) {
	defer t.observe("upsert_transaction", time.Now(), &err)

	decoded, err := json.Marshal(tx.Decoded)
	if err != nil {
		return fmt.Errorf("encode transaction %s: %w", tx.TxID, err)
	}

	var (
		height   sql.NullInt64
		hash     sql.NullString
		position sql.NullInt64
	)
	if tx.BlockHeight != nil {
		height = sql.NullInt64{Int64: *tx.BlockHeight, Valid: true}
	}
	if tx.BlockHash != nil {
		hash = sql.NullString{String: *tx.BlockHash, Valid: true}
	}
	if tx.Position != nil {
		position = sql.NullInt64{Int64: int64(*tx.Position), Valid: true}
	}

	if _, err = t.q.ExecContext(ctx, upsertTransactionQuery,
		tx.TxID, height, hash, position, tx.Time, string(tx.Status), decoded,
	); err != nil {
		return fmt.Errorf("upsert transaction %s: %w", tx.TxID, err)
	}
	return nil
}

func (t *ledgerTx) SetTransactionStatus(ctx context.Context, txid string, status model.TxStatus) (err error) {
	defer t.observe("set_transaction_status", time.Now(), &err)

	if status == model.TxConfirmed {
		return fmt.Errorf("transaction %s: confirmation requires block linkage", txid)
	}
	res, err := t.q.ExecContext(ctx, updateTransactionStatusQuery, txid, string(status))
	if err != nil {
		return fmt.Errorf("update transaction %s status: %w", txid, err)
	}
	return expectRows(res, 1, "transaction "+txid)
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		tx       model.Transaction
		height   sql.NullInt64
		hash     sql.NullString
		position sql.NullInt64
		status   string
		decoded  []byte
	)
	if err := row.Scan(&tx.TxID, &height, &hash, &position, &tx.Time, &status, &decoded); err != nil {
		return model.Transaction{}, err
	}
	tx.Status = model.TxStatus(status)
	if height.Valid {
		tx.BlockHeight = &height.Int64
	}
	if hash.Valid {
		tx.BlockHash = &hash.String
	}
	if position.Valid {
		p := int(position.Int64)
		tx.Position = &p
	}
	if err := json.Unmarshal(decoded, &tx.Decoded); err != nil {
		return model.Transaction{}, fmt.Errorf("decode transaction %s: %w", tx.TxID, err)
	}
	return tx, nil
}
