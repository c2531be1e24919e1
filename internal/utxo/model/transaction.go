package model

import "fmt"

// TxStatus describes where a transaction currently lives relative to the canonical chain.
type TxStatus string

var (
	TxConfirmed TxStatus = "confirmed"
	TxMempool   TxStatus = "mempool"
	TxDropped   TxStatus = "dropped"
	TxOrphaned  TxStatus = "orphaned"
)

// ScriptUnknown is the script type assigned to outputs that could not be classified.
const ScriptUnknown = "unknown"

// Outpoint references a transaction output.
type Outpoint struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Vout)
}

// Transaction is a stored transaction and its block linkage.
// BlockHeight and BlockHash are set only while the transaction is confirmed.
type Transaction struct {
	TxID        string
	BlockHeight *int64
	BlockHash   *string
	Position    *int
	Time        int64
	Status      TxStatus
	Decoded     DecodedTx
}

// DecodedTx is the structured form of a raw transaction.
type DecodedTx struct {
	TxID     string     `json:"txid"`
	Coinbase bool       `json:"coinbase"`
	Inputs   []TxInput  `json:"inputs"`
	Outputs  []TxOutput `json:"outputs"`
}

// SpentOutpoints returns the outpoints consumed by the transaction in input order.
func (t DecodedTx) SpentOutpoints() []Outpoint {
	out := make([]Outpoint, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		if in.Coinbase {
			continue
		}
		out = append(out, in.Prev())
	}
	return out
}

// TxInput describes a reference to a previous transaction output.
type TxInput struct {
	TxID     string `json:"txid"`
	Vin      uint32 `json:"vin"`
	PrevTxID string `json:"prev_txid,omitempty"`
	PrevVout uint32 `json:"prev_vout"`
	Sequence uint32 `json:"sequence"`
	Coinbase bool   `json:"coinbase,omitempty"`
}

// Prev returns the outpoint spent by the input.
func (i TxInput) Prev() Outpoint {
	return Outpoint{TxID: i.PrevTxID, Vout: i.PrevVout}
}

// TxOutput represents an output produced by a transaction.
// Address is empty when the script does not resolve to exactly one address.
type TxOutput struct {
	TxID       string `json:"txid"`
	Vout       uint32 `json:"vout"`
	Value      int64  `json:"value_sats"`
	ScriptType string `json:"script_type"`
	Address    string `json:"address,omitempty"`
	ScriptHex  string `json:"script_hex"`
	Anomaly    bool   `json:"anomaly,omitempty"`
}

// Outpoint returns the reference to this output.
func (o TxOutput) Outpoint() Outpoint {
	return Outpoint{TxID: o.TxID, Vout: o.Vout}
}

// TxLookup is the node's view of a transaction.
type TxLookup struct {
	Known     bool
	Confirmed bool
	BlockHash string
}
