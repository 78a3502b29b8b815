package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"

	"gobeampay/cctp"
	"gobeampay/config"
	"gobeampay/metrics"
	"gobeampay/wallet"

	"github.com/go-chi/chi"
)

var bridgeTxHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// BridgeStatus polls the attestation service for a burn transaction,
// trying candidate source domains in priority order. Invoked manually
// from the page; attestation latency runs from seconds to many minutes
// so the human decides when to re-check.
func BridgeStatus(w http.ResponseWriter, r *http.Request) {
	txHash := chi.URLParam(r, "txHash")
	if !bridgeTxHashRe.MatchString(txHash) {
		responseJSON(w, &APIResponse{Status: "error", Field: "txHash", Message: "Invalid transaction hash"}, http.StatusBadRequest)
		return
	}

	msg := Attestation.CheckStatus(txHash, config.DomainPriority)
	metrics.IncAttestationCheck(msg.Status)
	responseJSON(w, msg, http.StatusOK)
}

type mintRequest struct {
	TxHash  string `json:"txHash"`
	Network string `json:"network"`
}

// BridgeMint re-checks the attestation for a burn hash and, when the
// message is complete, submits receiveMessage on the destination chain.
func BridgeMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responseJSON(w, &MintResponse{Success: false, Error: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	if !bridgeTxHashRe.MatchString(req.TxHash) {
		responseJSON(w, &MintResponse{Success: false, Error: "Invalid transaction hash"}, http.StatusBadRequest)
		return
	}

	msg := Attestation.CheckStatus(req.TxHash, config.DomainPriority)
	metrics.IncAttestationCheck(msg.Status)

	txHash, err := cctp.Mint(Engine.Provider, msg, req.Network)
	if err != nil {
		log.Printf("Error minting for burn tx %s: %s", req.TxHash, err.Error())
		responseJSON(w, &MintResponse{Success: false, Error: err.Error()}, mintErrorCode(err))
		return
	}

	responseJSON(w, &MintResponse{Success: true, TransactionHash: txHash}, http.StatusOK)
}

func mintErrorCode(err error) int {
	switch {
	case errors.Is(err, cctp.ErrMintPrecondition),
		errors.Is(err, cctp.ErrNetworkUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, cctp.ErrWrongWalletChain):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrWalletUnavailable),
		errors.Is(err, wallet.ErrNoAccount):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
