package model

import "time"

// AddressBalance is the current confirmed balance of an address.
type AddressBalance struct {
	Address   string
	Balance   int64
	UpdatedAt time.Time
}

// BalanceSnapshot is an address balance as of the end of a canonical block.
type BalanceSnapshot struct {
	Address string
	Height  int64
	Balance int64
}
