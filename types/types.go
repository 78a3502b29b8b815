package types

// Order statuses. Transitions are monotone: unpaid -> paid, never back.
const (
	OrderUnpaid = "unpaid"
	OrderPaid   = "paid"
)

// Order is a storefront purchase awaiting (or having received) a
// cross-chain USDC payment. ID is the creation timestamp in Unix millis.
type Order struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"productId"`
	ProductTitle    string `json:"productTitle"`
	CustomerName    string `json:"customerName"`
	DeliveryAddress string `json:"deliveryAddress"`
	Quantity        int    `json:"quantity"`
	Amount          string `json:"amount"` // decimal USDC, e.g. "1.5"
	Wallet          string `json:"wallet"` // destination recipient address
	SellerChainID   string `json:"sellerChainId,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
	PaidAt          string `json:"paidAt,omitempty"`
	PaidNetwork     string `json:"paidNetwork,omitempty"`
}

type Product struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
}

// SellerProfile is a single record, overwritten on save. ChainID is the
// string-encoded CCTP domain of the chain the merchant wants paid on.
type SellerProfile struct {
	WalletAddress string `json:"walletAddress"`
	ChainID       string `json:"chain_id"`
}

// Bridge message lifecycle as reported by the attestation service.
const (
	BridgePending  = "pending"
	BridgeComplete = "complete"
	BridgeFailed   = "failed"
	BridgeNotFound = "not_found"
	BridgeError    = "error"
)

// BridgeMessage is the transient result of polling the attestation
// service for a burn transaction. MessageBytes and AttestationBytes are
// both populated iff Status is complete; the mint executor refuses to
// proceed otherwise.
type BridgeMessage struct {
	Status            string `json:"status"`
	MessageHash       string `json:"messageHash,omitempty"`
	SourceDomain      uint32 `json:"sourceDomain"`
	DestinationDomain uint32 `json:"destinationDomain"`
	Amount            string `json:"amount,omitempty"` // decimal USDC
	Recipient         string `json:"recipient,omitempty"`
	MessageBytes      string `json:"message,omitempty"`     // 0x-hex
	AttestationBytes  string `json:"attestation,omitempty"` // 0x-hex
	Timestamp         int64  `json:"timestamp"`
	Error             string `json:"error,omitempty"`
}

// Call is a single contract call inside a wallet batch request.
type Call struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// SettlementRecord tracks one interactive payment attempt for an order,
// persisted in Redis status sets.
type SettlementRecord struct {
	ID        string
	Status    string // submitted | confirmed | failed
	OrderID   int64
	Network   string
	BundleID  string // raw wallet batch identifier, when the wallet returned one
	TxHash    string // durable burn transaction hash (or bundle id fallback)
	MintTx    string // destination receiveMessage hash, once minted
	TsCreated int64
	Message   string // messages that help to track processing/errors
}
