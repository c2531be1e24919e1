// Package bitcoin implements the node client and transaction decoding for Bitcoin.
package bitcoin

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
)

// BtcToSatoshis converts BTC amount to satoshis rejecting negative values.
func BtcToSatoshis(value float64) (int64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	if amt > btcutil.MaxSatoshi {
		return 0, fmt.Errorf("amount %d exceeds max supply", amt)
	}
	return int64(amt), nil
}

// ParseBits parses a bits string into a 32-bit value.
func ParseBits(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}
