package wallet

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"time"

	"gobeampay/EVMRPC"
	"gobeampay/config"
	"gobeampay/types"
)

// BatchIdentifier is the tagged result of a batch submission: either a
// concrete transaction hash or an opaque bundle id that still needs to
// be resolved against the wallet's batch status.
type BatchIdentifier struct {
	Hash     string
	BundleID string
}

var txHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ParseBatchIdentifier normalizes the wallet's response shape. Wallets
// return either a bare string or an object carrying the identifier under
// one of several field names.
func ParseBatchIdentifier(raw json.RawMessage) (BatchIdentifier, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return classifyIdentifier(s), nil
	}

	var obj struct {
		ID              string `json:"id"`
		Hash            string `json:"hash"`
		TransactionHash string `json:"transactionHash"`
		TxHash          string `json:"txHash"`
		BundleID        string `json:"bundleId"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return BatchIdentifier{}, fmt.Errorf("unrecognized batch response shape: %s", string(raw))
	}

	for _, candidate := range []string{obj.Hash, obj.TransactionHash, obj.TxHash} {
		if candidate != "" {
			return BatchIdentifier{Hash: candidate}, nil
		}
	}
	for _, candidate := range []string{obj.ID, obj.BundleID} {
		if candidate != "" {
			return classifyIdentifier(candidate), nil
		}
	}
	return BatchIdentifier{}, fmt.Errorf("batch response carries no identifier: %s", string(raw))
}

func classifyIdentifier(s string) BatchIdentifier {
	if txHashRe.MatchString(s) {
		return BatchIdentifier{Hash: s}
	}
	return BatchIdentifier{BundleID: s}
}

// Engine drives a wallet through the approve+burn batch. Atomic batch
// submission is preferred; the sequential path exists for wallets
// without batch support and accepts the partial-completion risk.
type Engine struct {
	Provider       Provider
	SettleDelay    time.Duration // wait before the first batch status query
	StatusAttempts int
	StatusInterval time.Duration
	ReceiptTimeout time.Duration // sequential path inclusion wait
}

func NewEngine(provider Provider) *Engine {
	return &Engine{
		Provider:       provider,
		SettleDelay:    3 * time.Second,
		StatusAttempts: 5,
		StatusInterval: 2 * time.Second,
		ReceiptTimeout: 2 * time.Minute,
	}
}

// SubmitResult carries the durable transaction hash extracted from the
// submission, plus the raw bundle id when the wallet returned one.
type SubmitResult struct {
	TxHash   string
	BundleID string
	Atomic   bool
}

// Submit signs and submits the ordered calls on the given network.
func (e *Engine) Submit(network string, calls []types.Call) (*SubmitResult, error) {
	if e.Provider == nil || !e.Provider.IsAvailable() {
		return nil, ErrWalletUnavailable
	}
	if len(calls) == 0 {
		return nil, fmt.Errorf("no calls to submit")
	}

	accounts, err := e.Provider.Accounts()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccount
	}
	account := accounts[0]

	if e.Provider.SupportsAtomicBatch() {
		return e.submitAtomic(network, account, calls)
	}
	return e.submitSequential(network, account, calls)
}

func (e *Engine) submitAtomic(network, account string, calls []types.Call) (*SubmitResult, error) {
	chain := config.ResolveChain(network)

	raw, err := e.Provider.SendCalls(BatchRequest{
		Version:        "2.0.0",
		ChainID:        chain.HexChainID,
		From:           account,
		AtomicRequired: true,
		Calls:          calls,
	})
	if err != nil {
		return nil, err
	}

	ident, err := ParseBatchIdentifier(raw)
	if err != nil {
		return nil, err
	}
	if ident.Hash != "" {
		return &SubmitResult{TxHash: ident.Hash, Atomic: true}, nil
	}

	txHash := e.resolveBundle(ident.BundleID)
	return &SubmitResult{TxHash: txHash, BundleID: ident.BundleID, Atomic: true}, nil
}

// resolveBundle tries to turn a bundle id into the last sub-call's
// actual transaction hash; the last call is depositForBurn, whose hash
// is what the attestation service is keyed by. Falls back to the raw id
// when the wallet never yields a receipt within the attempt budget.
func (e *Engine) resolveBundle(bundleID string) string {
	time.Sleep(e.SettleDelay)

	for attempt := 0; attempt < e.StatusAttempts; attempt++ {
		status, err := e.Provider.CallsStatus(bundleID)
		if err != nil {
			log.Printf("Error querying batch status for %s: %s", bundleID, err.Error())
		} else if len(status.Receipts) > 0 {
			last := status.Receipts[len(status.Receipts)-1]
			if last.TransactionHash != "" {
				return last.TransactionHash
			}
		}
		time.Sleep(e.StatusInterval)
	}

	log.Printf("Could not resolve bundle %s to a transaction hash, using raw identifier", bundleID)
	return bundleID
}

// submitSequential sends the calls one at a time, awaiting inclusion of
// each before the next. Both-or-neither is not guaranteed here: a user
// cancelling after approve leaves a dangling allowance.
func (e *Engine) submitSequential(network, account string, calls []types.Call) (*SubmitResult, error) {
	var lastHash string
	for i, call := range calls {
		hash, err := e.Provider.SendTransaction(TxRequest{
			From:  account,
			To:    call.To,
			Data:  call.Data,
			Value: call.Value,
		})
		if err != nil {
			return nil, fmt.Errorf("call %d of %d failed: %s", i+1, len(calls), err.Error())
		}
		lastHash = hash

		if i < len(calls)-1 {
			if _, err := EVMRPC.WaitForReceipt(network, hash, e.ReceiptTimeout); err != nil {
				return nil, fmt.Errorf("call %d of %d not included: %s", i+1, len(calls), err.Error())
			}
		}
	}
	return &SubmitResult{TxHash: lastHash}, nil
}
