package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
)

// scriptInfo is the classification of a locking script.
type scriptInfo struct {
	class   string
	address string
	anomaly bool
}

// scriptDecoder classifies locking scripts and derives addresses using params of one network.
type scriptDecoder struct {
	params *chaincfg.Params
}

// decode never fails: scripts that cannot be parsed are reported as unknown anomalies.
func (d *scriptDecoder) decode(scriptHex string) scriptInfo {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return scriptInfo{class: model.ScriptUnknown, anomaly: true}
	}

	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
	}
	if tokenizer.Err() != nil {
		return scriptInfo{class: model.ScriptUnknown, anomaly: true}
	}

	class, addrs, _, err := txscript.ExtractPkScriptAddrs(script, d.params)
	if err != nil {
		return scriptInfo{class: model.ScriptUnknown, anomaly: true}
	}

	info := scriptInfo{class: class.String()}
	if len(addrs) == 1 && class != txscript.MultiSigTy {
		info.address = addrs[0].EncodeAddress()
	}
	return info
}

func chainParamsForNetwork(network model.Network) (*chaincfg.Params, error) {
	switch strings.ToLower(string(network)) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}
