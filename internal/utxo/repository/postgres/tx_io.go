package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
	"github.com/lib/pq"
)

const (
	insertOutputsQuery = `INSERT INTO tx_outputs (txid, vout, value_sats, script_type, address, script_hex)
SELECT o.txid, o.vout, o.value_sats, o.script_type, NULLIF(o.address, ''), o.script_hex
FROM unnest($1::text[], $2::bigint[], $3::bigint[], $4::text[], $5::text[], $6::text[])
    AS o(txid, vout, value_sats, script_type, address, script_hex)
ON CONFLICT (txid, vout) DO NOTHING`

	insertInputsQuery = `INSERT INTO tx_inputs (txid, vin, prev_txid, prev_vout, sequence)
SELECT * FROM unnest($1::text[], $2::bigint[], $3::text[], $4::bigint[], $5::bigint[])
ON CONFLICT (txid, vin) DO NOTHING`

	selectOutputsQuery = `SELECT txid, vout, value_sats, script_type, address, script_hex
FROM tx_outputs
WHERE txid = $1
ORDER BY vout`

	selectInputsQuery = `SELECT txid, vin, prev_txid, prev_vout, sequence
FROM tx_inputs
WHERE txid = $1
ORDER BY vin`
)

func (t *ledgerTx) InsertTransactionOutputs(ctx context.Context, outputs []model.TxOutput) (err error) {
	if len(outputs) == 0 {
		return nil
	}
	defer t.observe("insert_transaction_outputs", time.Now(), &err)

	var (
		txids       = make([]string, 0, len(outputs))
		vouts       = make([]int64, 0, len(outputs))
		values      = make([]int64, 0, len(outputs))
		scriptTypes = make([]string, 0, len(outputs))
		addresses   = make([]string, 0, len(outputs))
		scripts     = make([]string, 0, len(outputs))
	)
	for _, o := range outputs {
		txids = append(txids, o.TxID)
		vouts = append(vouts, int64(o.Vout))
		values = append(values, o.Value)
		scriptTypes = append(scriptTypes, o.ScriptType)
		addresses = append(addresses, o.Address)
		scripts = append(scripts, o.ScriptHex)
	}

	if _, err = t.q.ExecContext(ctx, insertOutputsQuery,
		pq.Array(txids), pq.Array(vouts), pq.Array(values),
		pq.Array(scriptTypes), pq.Array(addresses), pq.Array(scripts),
	); err != nil {
		return fmt.Errorf("insert transaction outputs: %w", err)
	}
	return nil
}

func (t *ledgerTx) InsertTransactionInputs(ctx context.Context, inputs []model.TxInput) (err error) {
	if len(inputs) == 0 {
		return nil
	}
	defer t.observe("insert_transaction_inputs", time.Now(), &err)

	var (
		txids     = make([]string, 0, len(inputs))
		vins      = make([]int64, 0, len(inputs))
		prevTxIDs = make([]string, 0, len(inputs))
		prevVouts = make([]int64, 0, len(inputs))
		sequences = make([]int64, 0, len(inputs))
	)
	for _, in := range inputs {
		txids = append(txids, in.TxID)
		vins = append(vins, int64(in.Vin))
		prevTxIDs = append(prevTxIDs, in.PrevTxID)
		prevVouts = append(prevVouts, int64(in.PrevVout))
		sequences = append(sequences, int64(in.Sequence))
	}

	if _, err = t.q.ExecContext(ctx, insertInputsQuery,
		pq.Array(txids), pq.Array(vins), pq.Array(prevTxIDs), pq.Array(prevVouts), pq.Array(sequences),
	); err != nil {
		return fmt.Errorf("insert transaction inputs: %w", err)
	}
	return nil
}

func (t *ledgerTx) TransactionOutputs(ctx context.Context, txid string) (outputs []model.TxOutput, err error) {
	defer t.observe("transaction_outputs", time.Now(), &err)

	rows, err := t.q.QueryContext(ctx, selectOutputsQuery, txid)
	if err != nil {
		return nil, fmt.Errorf("query outputs of %s: %w", txid, err)
	}
	return collect(rows, func(rows *sql.Rows) (model.TxOutput, error) {
		var (
			o       model.TxOutput
			vout    int64
			address sql.NullString
		)
		if err := rows.Scan(&o.TxID, &vout, &o.Value, &o.ScriptType, &address, &o.ScriptHex); err != nil {
			return model.TxOutput{}, fmt.Errorf("scan output: %w", err)
		}
		index, err := safe.Uint32(vout)
		if err != nil {
			return model.TxOutput{}, fmt.Errorf("output %s vout: %w", o.TxID, err)
		}
		o.Vout = index
		o.Address = address.String
		return o, nil
	})
}

func (t *ledgerTx) TransactionInputs(ctx context.Context, txid string) (inputs []model.TxInput, err error) {
	defer t.observe("transaction_inputs", time.Now(), &err)

	rows, err := t.q.QueryContext(ctx, selectInputsQuery, txid)
	if err != nil {
		return nil, fmt.Errorf("query inputs of %s: %w", txid, err)
	}
	return collect(rows, func(rows *sql.Rows) (model.TxInput, error) {
		var (
			in                       model.TxInput
			vin, prevVout, sequence int64
		)
		if err := rows.Scan(&in.TxID, &vin, &in.PrevTxID, &prevVout, &sequence); err != nil {
			return model.TxInput{}, fmt.Errorf("scan input: %w", err)
		}
		narrowed, err := safe.Uint32s(vin, prevVout, sequence)
		if err != nil {
			return model.TxInput{}, fmt.Errorf("input %s: %w", in.TxID, err)
		}
		in.Vin, in.PrevVout, in.Sequence = narrowed[0], narrowed[1], narrowed[2]
		return in, nil
	})
}
