package wallet

import (
	"encoding/json"
	"errors"

	"gobeampay/types"
)

var (
	ErrWalletUnavailable = errors.New("no wallet provider available")
	ErrNoAccount         = errors.New("wallet has no account connected")
)

// TxRequest is a single plain transaction submission.
type TxRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// BatchRequest asks the wallet to execute an ordered list of calls as an
// indivisible unit.
type BatchRequest struct {
	Version        string       `json:"version"`
	ChainID        string       `json:"chainId"`
	From           string       `json:"from"`
	AtomicRequired bool         `json:"atomicRequired"`
	Calls          []types.Call `json:"calls"`
}

type BatchReceipt struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status,omitempty"`
	BlockNumber     string `json:"blockNumber,omitempty"`
}

type BatchStatus struct {
	Status   string         `json:"status"`
	Receipts []BatchReceipt `json:"receipts"`
}

// Provider is the narrow wallet contract the kernel depends on. No
// object-shape sniffing of extension globals happens anywhere else;
// capability questions go through IsAvailable/SupportedNetworks/
// SupportsAtomicBatch.
type Provider interface {
	IsAvailable() bool
	SupportedNetworks() []string
	SupportsAtomicBatch() bool
	Accounts() ([]string, error)
	ChainID() (string, error)
	SendCalls(req BatchRequest) (json.RawMessage, error)
	CallsStatus(id string) (*BatchStatus, error)
	SendTransaction(tx TxRequest) (string, error)
}
