package handlers

import (
	"gobeampay/cctp"
	"gobeampay/store"
	"gobeampay/wallet"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

type APIStateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type SettlementResponse struct {
	Success           bool   `json:"success"`
	TransactionHash   string `json:"transactionHash,omitempty"`
	BundleID          string `json:"bundleId,omitempty"`
	UserOperationHash string `json:"userOperationHash,omitempty"`
	Network           string `json:"network,omitempty"`
	OrderID           int64  `json:"orderId,omitempty"`
	Error             string `json:"error,omitempty"`
}

type MintResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Error           string `json:"error,omitempty"`
}

type NetworkInfoResponse struct {
	Success     bool         `json:"success"`
	NetworkInfo *NetworkInfo `json:"networkInfo,omitempty"`
	Error       string       `json:"error,omitempty"`
}

type NetworkInfo struct {
	NetworkID          int    `json:"networkId"`
	NetworkName        string `json:"networkName"`
	ChainID            string `json:"chainId"`
	CCTPDomain         uint32 `json:"cctpDomain"`
	TokenMessenger     string `json:"tokenMessengerAddress"`
	MessageTransmitter string `json:"messageTransmitterAddress"`
	ExplorerURL        string `json:"explorerUrl"`
}

// handler dependencies, wired once from main
var (
	Store       *store.Store
	Engine      *wallet.Engine
	Attestation *cctp.AttestationClient
	UploadsDir  string
)

func Init(s *store.Store, e *wallet.Engine, a *cctp.AttestationClient, uploadsDir string) {
	Store = s
	Engine = e
	Attestation = a
	UploadsDir = uploadsDir
}
