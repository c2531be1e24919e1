package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
)

// Decoder turns verbose node results into ledger models.
type Decoder struct {
	scripts scriptDecoder
}

// NewDecoder initializes a decoder that derives addresses for the provided network.
func NewDecoder(network model.Network) (*Decoder, error) {
	params, err := chainParamsForNetwork(network)
	if err != nil {
		return nil, err
	}
	return &Decoder{scripts: scriptDecoder{params: params}}, nil
}

// DecodeTx structures a verbose transaction. Unclassifiable scripts are flagged, not rejected.
func (d *Decoder) DecodeTx(tx btcjson.TxRawResult) (model.DecodedTx, error) {
	if tx.Txid == "" {
		return model.DecodedTx{}, fmt.Errorf("transaction without txid")
	}

	decoded := model.DecodedTx{
		TxID:    tx.Txid,
		Inputs:  make([]model.TxInput, 0, len(tx.Vin)),
		Outputs: make([]model.TxOutput, 0, len(tx.Vout)),
	}

	for idx, vin := range tx.Vin {
		index, err := safe.Uint32(idx)
		if err != nil {
			return model.DecodedTx{}, fmt.Errorf("tx %s input index overflow: %w", tx.Txid, err)
		}
		input := model.TxInput{
			TxID:     tx.Txid,
			Vin:      index,
			Sequence: vin.Sequence,
		}
		if vin.IsCoinBase() {
			input.Coinbase = true
			decoded.Coinbase = true
		} else {
			if vin.Txid == "" {
				return model.DecodedTx{}, fmt.Errorf("tx %s input %d has no previous txid", tx.Txid, idx)
			}
			input.PrevTxID = vin.Txid
			input.PrevVout = vin.Vout
		}
		decoded.Inputs = append(decoded.Inputs, input)
	}

	for idx, vout := range tx.Vout {
		index, err := safe.Uint32(idx)
		if err != nil {
			return model.DecodedTx{}, fmt.Errorf("tx %s output index overflow: %w", tx.Txid, err)
		}
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return model.DecodedTx{}, fmt.Errorf("tx %s output %d value: %w", tx.Txid, idx, err)
		}
		info := d.scripts.decode(vout.ScriptPubKey.Hex)
		decoded.Outputs = append(decoded.Outputs, model.TxOutput{
			TxID:       tx.Txid,
			Vout:       index,
			Value:      value,
			ScriptType: info.class,
			Address:    info.address,
			ScriptHex:  vout.ScriptPubKey.Hex,
			Anomaly:    info.anomaly,
		})
	}

	return decoded, nil
}

// DecodeBlock maps a verbose block with transactions into a SourceBlock.
func (d *Decoder) DecodeBlock(src *btcjson.GetBlockVerboseTxResult) (*model.SourceBlock, error) {
	if src == nil {
		return nil, fmt.Errorf("empty block result")
	}
	height, err := safe.Height(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", src.Hash, err)
	}
	bits, err := ParseBits(src.Bits)
	if err != nil {
		return nil, fmt.Errorf("block %d bits parse: %w", height, err)
	}

	block := model.Block{
		Height:   height,
		Hash:     src.Hash,
		PrevHash: src.PreviousHash,
		Time:     src.Time,
		Status:   model.BlockCanonical,
		Meta: model.BlockMeta{
			Version:    src.Version,
			MerkleRoot: src.MerkleRoot,
			Bits:       bits,
			Nonce:      src.Nonce,
			Difficulty: src.Difficulty,
			Size:       src.Size,
			TXCount:    len(src.Tx),
		},
	}

	txs := make([]model.DecodedTx, 0, len(src.Tx))
	for _, raw := range src.Tx {
		tx, err := d.DecodeTx(raw)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", src.Height, err)
		}
		txs = append(txs, tx)
	}

	return &model.SourceBlock{Block: block, Txs: txs}, nil
}
