// Package metrics exposes prometheus collectors for the ledger indexer.
package metrics

const namespace = "blockinsight7000_ledger"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
