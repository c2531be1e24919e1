package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	"go.uber.org/ratelimit"
)

// NodeClient exposes the node operations the ledger needs.
// Every RPC failure is reported as *model.TransientNodeError.
type NodeClient struct {
	rpc            RPCClient
	decoder        *Decoder
	limiter        Limiter
	requestTimeout time.Duration
	now            func() time.Time
}

// NewNodeClient builds a NodeClient. A nil limiter means unlimited.
func NewNodeClient(rpc RPCClient, decoder *Decoder, limiter Limiter, requestTimeout time.Duration) *NodeClient {
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &NodeClient{
		rpc:            rpc,
		decoder:        decoder,
		limiter:        limiter,
		requestTimeout: requestTimeout,
		now:            time.Now,
	}
}

// Tip returns the node's best block.
func (c *NodeClient) Tip(ctx context.Context) (model.NodeTip, error) {
	tip, _, err := c.TimedTip(ctx)
	return tip, err
}

// TimedTip returns the node's best block and the time spent in the rpc calls.
// Time spent waiting on the rate limiter is not counted.
func (c *NodeClient) TimedTip(ctx context.Context) (model.NodeTip, time.Duration, error) {
	hash, hashTook, err := timedCall(ctx, c, "getbestblockhash", c.rpc.GetBestBlockHash)
	if err != nil {
		return model.NodeTip{}, hashTook, err
	}
	header, headerTook, err := timedCall(ctx, c, "getblockheader", func() (*btcjson.GetBlockHeaderVerboseResult, error) {
		return c.rpc.GetBlockHeaderVerbose(hash)
	})
	took := hashTook + headerTook
	if err != nil {
		return model.NodeTip{}, took, err
	}
	return model.NodeTip{Height: int64(header.Height), Hash: header.Hash}, took, nil
}

// BlockByHeight fetches the block the node considers canonical at height.
func (c *NodeClient) BlockByHeight(ctx context.Context, height int64) (*model.SourceBlock, error) {
	if height < 0 {
		return nil, fmt.Errorf("negative block height %d", height)
	}
	hash, err := call(ctx, c, "getblockhash", func() (*chainhash.Hash, error) {
		return c.rpc.GetBlockHash(height)
	})
	if err != nil {
		return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	return c.block(ctx, hash)
}

// BlockByHash fetches a block regardless of whether it is on the node's active chain.
func (c *NodeClient) BlockByHash(ctx context.Context, hash string) (*model.SourceBlock, error) {
	h, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return nil, fmt.Errorf("parse block hash %q: %w", hash, err)
	}
	return c.block(ctx, h)
}

func (c *NodeClient) block(ctx context.Context, hash *chainhash.Hash) (*model.SourceBlock, error) {
	src, err := call(ctx, c, "getblock", func() (*btcjson.GetBlockVerboseTxResult, error) {
		return c.rpc.GetBlockVerboseTx(hash)
	})
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	return c.decoder.DecodeBlock(src)
}

// RawTransaction fetches and decodes a transaction. A transaction unknown to the node
// is reported through TxLookup.Known rather than an error.
func (c *NodeClient) RawTransaction(ctx context.Context, txid string) (model.DecodedTx, model.TxLookup, error) {
	h, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return model.DecodedTx{}, model.TxLookup{}, fmt.Errorf("parse txid %q: %w", txid, err)
	}
	raw, err := call(ctx, c, "getrawtransaction", func() (*btcjson.TxRawResult, error) {
		return c.rpc.GetRawTransactionVerbose(h)
	})
	if err != nil {
		if isTxNotFound(err) {
			return model.DecodedTx{}, model.TxLookup{}, nil
		}
		return model.DecodedTx{}, model.TxLookup{}, err
	}
	decoded, err := c.decoder.DecodeTx(*raw)
	if err != nil {
		return model.DecodedTx{}, model.TxLookup{}, err
	}
	return decoded, model.TxLookup{
		Known:     true,
		Confirmed: raw.BlockHash != "" && raw.Confirmations > 0,
		BlockHash: raw.BlockHash,
	}, nil
}

// LookupTransaction reports where the node currently sees a transaction.
func (c *NodeClient) LookupTransaction(ctx context.Context, txid string) (model.TxLookup, error) {
	_, lookup, err := c.RawTransaction(ctx, txid)
	return lookup, err
}

func isTxNotFound(err error) bool {
	var rpcErr *btcjson.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == btcjson.ErrRPCNoTxInfo
}

// call paces and bounds a blocking rpc invocation. The underlying client is not
// context aware, so an abandoned call finishes in the background.
func call[T any](ctx context.Context, c *NodeClient, op string, fn func() (T, error)) (T, error) {
	v, _, err := timedCall(ctx, c, op, fn)
	return v, err
}

// timedCall is call that also reports how long the rpc itself ran, excluding pacing.
func timedCall[T any](ctx context.Context, c *NodeClient, op string, fn func() (T, error)) (T, time.Duration, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, 0, err
	}
	c.limiter.Take()

	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	type result struct {
		value T
		err   error
	}
	started := c.now()
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, c.now().Sub(started), &model.TransientNodeError{Op: op, Err: ctx.Err()}
	case r := <-done:
		took := c.now().Sub(started)
		if r.err != nil {
			return zero, took, &model.TransientNodeError{Op: op, Err: r.err}
		}
		return r.value, took, nil
	}
}
