package workers

import (
	"errors"
	"log"
	"math/big"
	"strings"
	"time"

	"gobeampay/EVMRPC"
	"gobeampay/config"
	"gobeampay/metrics"
	"gobeampay/redis"
	"gobeampay/store"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// narrow seams so the cycle logic is testable without an RPC node
type chainReader interface {
	Head() (uint64, error)
	PaymentLogs(fromBlock, toBlock int64) ([]ethtypes.Log, error)
}

type cursorStore interface {
	Get(chainName string) (int64, error)
	Set(chainName string, block int64) error
}

type orderMarker interface {
	MarkPaid(id int64, network string) (bool, error)
}

type evmReader struct {
	network string
}

func (r evmReader) Head() (uint64, error) {
	return EVMRPC.BlockNumber(r.network)
}

func (r evmReader) PaymentLogs(fromBlock, toBlock int64) ([]ethtypes.Log, error) {
	return EVMRPC.PaymentLogs(r.network, fromBlock, toBlock)
}

type redisCursors struct{}

func (redisCursors) Get(chainName string) (int64, error) { return redis.GetChainSyncedBlock(chainName) }
func (redisCursors) Set(chainName string, block int64) error {
	return redis.SetChainSyncedBlock(chainName, block)
}

// Worker_scanPayments reconciles local orders against the chain's
// payment-confirmation events. One goroutine per enabled chain; a
// failing cycle is logged and retried next tick, it never blocks the
// other chains.
func Worker_scanPayments(network string, orders *store.Store) {
	interval := time.Duration(config.Config.ScanIntervalSec) * time.Second
	reader := evmReader{network: network}

	for !WorkerShutdown {
		time.Sleep(interval)

		err := runScanCycle(network, reader, redisCursors{}, orders, config.ResolveChain(network).BlockBatch)
		if err != nil {
			log.Printf("Error scanning %s payments: %s", network, err.Error())
			metrics.IncScanCycle(network, "error")
			continue
		}
		metrics.IncScanCycle(network, "ok")
	}
}

// runScanCycle advances one chain's cursor by one cycle. First run pins
// the cursor to the current head without scanning history, bounding
// catch-up cost; afterwards the inclusive range (cursor, head] is
// scanned in chunks, persisting the cursor after every completed chunk
// so progress survives a mid-cycle failure.
func runScanCycle(network string, reader chainReader, cursors cursorStore, orders orderMarker, blockBatch int) error {
	cursor, err := cursors.Get(network)
	if err != nil {
		return err
	}

	head, err := reader.Head()
	if err != nil {
		return err
	}
	toBlock := int64(head)

	if cursor < 0 {
		// uninitialized: pin to head, no historical backfill
		log.Printf("Initialized %s scan cursor at block %d", network, toBlock)
		return cursors.Set(network, toBlock)
	}

	if toBlock <= cursor {
		// zero new blocks
		return nil
	}

	if blockBatch <= 0 {
		blockBatch = 512
	}

	for from := cursor + 1; from <= toBlock; from += int64(blockBatch) {
		to := from + int64(blockBatch) - 1
		if to > toBlock {
			to = toBlock
		}

		logs, err := reader.PaymentLogs(from, to)
		if err != nil {
			// cursor stays at the last completed chunk, retried next cycle
			return err
		}

		for _, l := range logs {
			orderID, ok := paymentOrderID(l)
			if !ok {
				continue
			}

			updated, err := orders.MarkPaid(orderID, network)
			if errors.Is(err, store.ErrOrderNotFound) {
				log.Printf("Payment event on %s references unknown order %d (tx %s)", network, orderID, l.TxHash.Hex())
				continue
			}
			if err != nil {
				return err
			}
			if updated {
				log.Printf("Order %d marked as paid from %s event (tx %s)", orderID, network, l.TxHash.Hex())
				metrics.IncOrderPaid(network)
			}
		}

		if err := cursors.Set(network, to); err != nil {
			return err
		}
	}

	return nil
}

// paymentOrderID extracts the order id correlated by a payment
// confirmation log. The merchant contract emits the hook payload
// ("order_{id}" ASCII) as its data field; an older contract variant
// indexes the numeric order id as the first topic instead.
func paymentOrderID(l ethtypes.Log) (int64, bool) {
	if ref, ok := decodeBytesPayload(l.Data); ok {
		if id, ok := orderIDFromRef(ref); ok {
			return id, true
		}
	}

	if len(l.Topics) > 1 {
		id := new(big.Int).SetBytes(l.Topics[1].Bytes())
		if id.IsInt64() && id.Sign() > 0 {
			return id.Int64(), true
		}
	}
	return 0, false
}

func orderIDFromRef(ref string) (int64, bool) {
	if !strings.HasPrefix(ref, "order_") {
		return 0, false
	}
	id := new(big.Int)
	if _, ok := id.SetString(strings.TrimPrefix(ref, "order_"), 10); !ok {
		return 0, false
	}
	if !id.IsInt64() || id.Sign() <= 0 {
		return 0, false
	}
	return id.Int64(), true
}

// decodeBytesPayload unwraps an ABI-encoded dynamic bytes argument
// (offset word, length word, payload). Raw unencoded payloads are
// accepted as-is.
func decodeBytesPayload(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}

	if len(data) >= 64 {
		offset := new(big.Int).SetBytes(data[:32])
		if offset.IsInt64() && offset.Int64() == 32 {
			length := new(big.Int).SetBytes(data[32:64])
			if length.IsInt64() {
				n := length.Int64()
				if n >= 0 && 64+n <= int64(len(data)) {
					return string(data[64 : 64+n]), true
				}
			}
		}
	}

	return string(data), true
}
