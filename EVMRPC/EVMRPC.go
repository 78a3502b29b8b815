package EVMRPC

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"gobeampay/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// WithClient runs f against the chain's RPC endpoints in order until one
// succeeds.
func WithClient[T any](network string, f func(client *ethclient.Client) (T, error)) (res T, err error) {
	var client *ethclient.Client
	for _, url := range config.ResolveChain(network).RPCList {
		client, err = ethclient.Dial(url)
		if err != nil {
			log.Println(fmt.Sprintf("Error connecting to %s: %s", url, err.Error()))
			continue
		}

		res, err = f(client)
		client.Close()
		if err == nil {
			return
		}
	}
	return
}

func BlockNumber(network string) (uint64, error) {
	return WithClient(network, func(client *ethclient.Client) (uint64, error) {
		return client.BlockNumber(context.Background())
	})
}

// PaymentLogs queries the merchant contract's payment-confirmation logs
// for an inclusive block range.
func PaymentLogs(network string, fromBlock, toBlock int64) ([]ethtypes.Log, error) {
	chain := config.ResolveChain(network)
	return WithClient(network, func(client *ethclient.Client) ([]ethtypes.Log, error) {
		return client.FilterLogs(
			context.Background(), ethereum.FilterQuery{
				FromBlock: big.NewInt(fromBlock),
				ToBlock:   big.NewInt(toBlock),
				Addresses: []common.Address{common.HexToAddress(chain.MerchantContract)},
				Topics:    [][]common.Hash{{common.HexToHash(chain.EventTopic)}},
			},
		)
	})
}

// WaitForReceipt polls until the transaction is mined or the deadline
// passes. Used by the sequential submission fallback, where approve has
// to land before depositForBurn may be sent.
func WaitForReceipt(network string, txHash string, timeout time.Duration) (*ethtypes.Receipt, error) {
	deadline := time.Now().Add(timeout)
	for {
		receipt, err := WithClient(network, func(client *ethclient.Client) (*ethtypes.Receipt, error) {
			return client.TransactionReceipt(context.Background(), common.HexToHash(txHash))
		})
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for receipt of %s", txHash)
		}
		time.Sleep(2 * time.Second)
	}
}
