package model

// UTXOStatus describes the lifecycle state of an unspent output entry.
type UTXOStatus string

var (
	UTXOUnspent UTXOStatus = "unspent"
	UTXOSpent   UTXOStatus = "spent"
)

// UTXO is an entry of the output projection. SpendingTxID is set only while spent.
type UTXO struct {
	Outpoint
	Address       string
	Value         int64
	SpendingTxID  string
	Status        UTXOStatus
	CreatedHeight int64
}
