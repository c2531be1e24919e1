// Package model defines domain models for the reorg-aware UTXO ledger.
package model

// BlockStatus describes the chain membership of a stored block.
type BlockStatus string

var (
	// BlockCanonical marks a block on the current canonical chain.
	BlockCanonical BlockStatus = "canonical"
	// BlockOrphaned marks a block displaced by a reorganization.
	BlockOrphaned BlockStatus = "orphaned"
)

// Block represents a block header persisted to the ledger.
type Block struct {
	Height   int64
	Hash     string
	PrevHash string
	// Time is the header timestamp in unix seconds.
	Time   int64
	Status BlockStatus
	Meta   BlockMeta
}

// BlockMeta carries header fields that the ledger keeps for display only.
type BlockMeta struct {
	Version    int32   `json:"version"`
	MerkleRoot string  `json:"merkle_root"`
	Bits       uint32  `json:"bits"`
	Nonce      uint32  `json:"nonce"`
	Difficulty float64 `json:"difficulty"`
	Size       int32   `json:"size"`
	TXCount    int     `json:"tx_count"`
}

// ChainTip is the versioned record of the highest canonical block.
// Version is bumped on every committed block unit.
type ChainTip struct {
	Height  int64
	Hash    string
	Version int64
}

// Empty reports whether no block has been applied yet.
func (t ChainTip) Empty() bool {
	return t.Hash == ""
}

// NodeTip is the best block reported by the node.
type NodeTip struct {
	Height int64
	Hash   string
}

// SourceBlock is a block fetched from the node together with its decoded transactions.
type SourceBlock struct {
	Block Block
	Txs   []DecodedTx
}
