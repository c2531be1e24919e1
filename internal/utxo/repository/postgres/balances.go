package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/lib/pq"
)

const (
	lockAddressBalancesQuery = `SELECT address, balance_sats
FROM address_balances
WHERE address = ANY($1)
ORDER BY address
FOR UPDATE`

	upsertAddressBalancesQuery = `INSERT INTO address_balances (address, balance_sats, updated_at)
SELECT * FROM unnest($1::text[], $2::bigint[], $3::timestamptz[])
ON CONFLICT (address) DO UPDATE SET balance_sats = EXCLUDED.balance_sats, updated_at = EXCLUDED.updated_at`

	upsertBalanceHistoryQuery = `INSERT INTO address_balance_history (address, block_height, balance_sats)
SELECT * FROM unnest($1::text[], $2::bigint[], $3::bigint[])
ON CONFLICT (address, block_height) DO UPDATE SET balance_sats = EXCLUDED.balance_sats`

	deleteBalanceHistoryQuery = `DELETE FROM address_balance_history WHERE block_height = $1`

	selectAddressBalanceQuery = `SELECT address, balance_sats, updated_at FROM address_balances WHERE address = $1`

	selectAddressBalancesQuery = `SELECT address, balance_sats, updated_at
FROM address_balances
WHERE address = ANY($1)
ORDER BY address`

	selectTopBalancesQuery = `SELECT address, balance_sats, updated_at
FROM address_balances
ORDER BY balance_sats DESC, address
LIMIT $1`

	selectBalanceAtQuery = `SELECT address, block_height, balance_sats
FROM address_balance_history
WHERE address = $1 AND block_height <= $2
ORDER BY block_height DESC
LIMIT 1`
)

func (t *ledgerTx) LockAddressBalances(ctx context.Context, addresses []string) (balances map[string]int64, err error) {
	balances = make(map[string]int64, len(addresses))
	if len(addresses) == 0 {
		return balances, nil
	}
	defer t.observe("lock_address_balances", time.Now(), &err)

	rows, err := t.q.QueryContext(ctx, lockAddressBalancesQuery, pq.Array(addresses))
	if err != nil {
		return nil, fmt.Errorf("lock address balances: %w", err)
	}
	locked, err := collect(rows, func(rows *sql.Rows) (model.AddressBalance, error) {
		var b model.AddressBalance
		if err := rows.Scan(&b.Address, &b.Balance); err != nil {
			return model.AddressBalance{}, fmt.Errorf("scan address balance: %w", err)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	for _, b := range locked {
		balances[b.Address] = b.Balance
	}
	return balances, nil
}

func (t *ledgerTx) UpsertAddressBalances(ctx context.Context, balances []model.AddressBalance) (err error) {
	if len(balances) == 0 {
		return nil
	}
	defer t.observe("upsert_address_balances", time.Now(), &err)

	var (
		addresses = make([]string, 0, len(balances))
		amounts   = make([]int64, 0, len(balances))
		updated   = make([]string, 0, len(balances))
	)
	for _, b := range balances {
		addresses = append(addresses, b.Address)
		amounts = append(amounts, b.Balance)
		updated = append(updated, b.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}

	if _, err = t.q.ExecContext(ctx, upsertAddressBalancesQuery,
		pq.Array(addresses), pq.Array(amounts), pq.Array(updated),
	); err != nil {
		return fmt.Errorf("upsert address balances: %w", err)
	}
	return nil
}

func (t *ledgerTx) UpsertBalanceHistory(ctx context.Context, snapshots []model.BalanceSnapshot) (err error) {
	if len(snapshots) == 0 {
		return nil
	}
	defer t.observe("upsert_balance_history", time.Now(), &err)

	var (
		addresses = make([]string, 0, len(snapshots))
		heights   = make([]int64, 0, len(snapshots))
		amounts   = make([]int64, 0, len(snapshots))
	)
	for _, s := range snapshots {
		addresses = append(addresses, s.Address)
		heights = append(heights, s.Height)
		amounts = append(amounts, s.Balance)
	}

	if _, err = t.q.ExecContext(ctx, upsertBalanceHistoryQuery,
		pq.Array(addresses), pq.Array(heights), pq.Array(amounts),
	); err != nil {
		return fmt.Errorf("upsert balance history: %w", err)
	}
	return nil
}

func (t *ledgerTx) DeleteBalanceHistory(ctx context.Context, height int64) (err error) {
	defer t.observe("delete_balance_history", time.Now(), &err)

	if _, err = t.q.ExecContext(ctx, deleteBalanceHistoryQuery, height); err != nil {
		return fmt.Errorf("delete balance history at %d: %w", height, err)
	}
	return nil
}

func (e executor) AddressBalance(ctx context.Context, address string) (balance model.AddressBalance, err error) {
	defer e.observe("address_balance", time.Now(), &err)

	balance, err = scanAddressBalance(e.q.QueryRowContext(ctx, selectAddressBalanceQuery, address))
	if errors.Is(err, sql.ErrNoRows) {
		return model.AddressBalance{}, model.ErrNotFound
	}
	if err != nil {
		return model.AddressBalance{}, fmt.Errorf("query balance of %s: %w", address, err)
	}
	return balance, nil
}

func (e executor) AddressBalances(ctx context.Context, addresses []string) (balances []model.AddressBalance, err error) {
	if len(addresses) == 0 {
		return []model.AddressBalance{}, nil
	}
	defer e.observe("address_balances", time.Now(), &err)

	rows, err := e.q.QueryContext(ctx, selectAddressBalancesQuery, pq.Array(addresses))
	if err != nil {
		return nil, fmt.Errorf("query address balances: %w", err)
	}
	return collect(rows, func(rows *sql.Rows) (model.AddressBalance, error) {
		return scanAddressBalance(rows)
	})
}

func (e executor) TopBalances(ctx context.Context, limit int) (balances []model.AddressBalance, err error) {
	defer e.observe("top_balances", time.Now(), &err)

	var arg any
	if limit > 0 {
		arg = limit
	}
	rows, err := e.q.QueryContext(ctx, selectTopBalancesQuery, arg)
	if err != nil {
		return nil, fmt.Errorf("query top balances: %w", err)
	}
	return collect(rows, func(rows *sql.Rows) (model.AddressBalance, error) {
		return scanAddressBalance(rows)
	})
}

func (e executor) BalanceAt(ctx context.Context, address string, height int64) (snapshot model.BalanceSnapshot, err error) {
	defer e.observe("balance_at", time.Now(), &err)

	err = e.q.QueryRowContext(ctx, selectBalanceAtQuery, address, height).
		Scan(&snapshot.Address, &snapshot.Height, &snapshot.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BalanceSnapshot{}, model.ErrNotFound
	}
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("query balance of %s at %d: %w", address, height, err)
	}
	return snapshot, nil
}

func scanAddressBalance(row scanner) (model.AddressBalance, error) {
	var b model.AddressBalance
	if err := row.Scan(&b.Address, &b.Balance, &b.UpdatedAt); err != nil {
		return model.AddressBalance{}, err
	}
	return b, nil
}
