package model

// Network names a Bitcoin network supported by the indexer.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Signet  Network = "signet"
	Regtest Network = "regtest"
)
