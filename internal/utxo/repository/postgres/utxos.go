package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
)

const (
	utxoColumns = `txid, vout, address, value_sats, spending_txid, status, created_height`

	lockUTXOQuery = `SELECT ` + utxoColumns + ` FROM utxos WHERE txid = $1 AND vout = $2 FOR UPDATE`

	insertUTXOQuery = `INSERT INTO utxos (` + utxoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateUTXOSpendQuery = `UPDATE utxos SET status = $3, spending_txid = $4 WHERE txid = $1 AND vout = $2`

	deleteUTXOQuery = `DELETE FROM utxos WHERE txid = $1 AND vout = $2`

	selectUnspentOutputsQuery = `SELECT ` + utxoColumns + `
FROM utxos
WHERE address = $1 AND status = 'unspent'
ORDER BY created_height, txid, vout`
)

func (t *ledgerTx) LockUTXO(ctx context.Context, outpoint model.Outpoint) (utxo model.UTXO, err error) {
	defer t.observe("lock_utxo", time.Now(), &err)

	utxo, err = scanUTXO(t.q.QueryRowContext(ctx, lockUTXOQuery, outpoint.TxID, int64(outpoint.Vout)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.UTXO{}, model.ErrNotFound
	}
	if err != nil {
		return model.UTXO{}, fmt.Errorf("lock utxo %s: %w", outpoint, err)
	}
	return utxo, nil
}

func (t *ledgerTx) InsertUTXO(ctx context.Context, utxo model.UTXO) (err error) {
	defer t.observe("insert_utxo", time.Now(), &err)

	if _, err = t.q.ExecContext(ctx, insertUTXOQuery,
		utxo.TxID, int64(utxo.Vout), nullString(utxo.Address), utxo.Value,
		nullString(utxo.SpendingTxID), string(utxo.Status), utxo.CreatedHeight,
	); err != nil {
		return fmt.Errorf("insert utxo %s: %w", utxo.Outpoint, err)
	}
	return nil
}

func (t *ledgerTx) UpdateUTXOSpend(ctx context.Context, outpoint model.Outpoint, status model.UTXOStatus, spendingTxID string) (err error) {
	defer t.observe("update_utxo_spend", time.Now(), &err)

	res, err := t.q.ExecContext(ctx, updateUTXOSpendQuery,
		outpoint.TxID, int64(outpoint.Vout), string(status), nullString(spendingTxID),
	)
	if err != nil {
		return fmt.Errorf("update utxo %s: %w", outpoint, err)
	}
	return expectRows(res, 1, "utxo "+outpoint.String())
}

func (t *ledgerTx) DeleteUTXO(ctx context.Context, outpoint model.Outpoint) (err error) {
	defer t.observe("delete_utxo", time.Now(), &err)

	if _, err = t.q.ExecContext(ctx, deleteUTXOQuery, outpoint.TxID, int64(outpoint.Vout)); err != nil {
		return fmt.Errorf("delete utxo %s: %w", outpoint, err)
	}
	return nil
}

func (e executor) UnspentOutputs(ctx context.Context, address string) (utxos []model.UTXO, err error) {
	defer e.observe("unspent_outputs", time.Now(), &err)

	rows, err := e.q.QueryContext(ctx, selectUnspentOutputsQuery, address)
	if err != nil {
		return nil, fmt.Errorf("query unspent outputs of %s: %w", address, err)
	}
	return collect(rows, func(rows *sql.Rows) (model.UTXO, error) {
		return scanUTXO(rows)
	})
}

func scanUTXO(row scanner) (model.UTXO, error) {
	var (
		u        model.UTXO
		vout     int64
		address  sql.NullString
		spending sql.NullString
		status   string
	)
	if err := row.Scan(&u.TxID, &vout, &address, &u.Value, &spending, &status, &u.CreatedHeight); err != nil {
		return model.UTXO{}, err
	}
	index, err := safe.Uint32(vout)
	if err != nil {
		return model.UTXO{}, fmt.Errorf("utxo %s vout: %w", u.TxID, err)
	}
	u.Vout = index
	u.Address = address.String
	u.SpendingTxID = spending.String
	u.Status = model.UTXOStatus(status)
	return u, nil
}
