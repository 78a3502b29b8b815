package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"gobeampay/types"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
)

func GetSeller(w http.ResponseWriter, r *http.Request) {
	seller, err := Store.Seller()
	if err != nil {
		log.Printf("Error reading seller profile: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to read seller profile"}, http.StatusInternalServerError)
		return
	}
	responseJSON(w, seller, http.StatusOK)
}

func SaveSeller(w http.ResponseWriter, r *http.Request) {
	var seller types.SellerProfile
	if err := json.NewDecoder(r.Body).Decode(&seller); err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	if !common.IsHexAddress(seller.WalletAddress) {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "walletAddress",
			Message: "No ethereum address or invalid address provided",
		}, http.StatusBadRequest)
		return
	}
	if err := ethav.Validate(common.HexToAddress(seller.WalletAddress).Hex()); err != nil {
		log.Printf("Error validating seller address '%s': %s\n", seller.WalletAddress, err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "walletAddress",
			Message: "No ethereum address or invalid address provided",
		}, http.StatusBadRequest)
		return
	}

	if seller.ChainID == "" {
		seller.ChainID = "0"
	} else if _, err := strconv.ParseUint(seller.ChainID, 10, 32); err != nil {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "chain_id",
			Message: "chain_id must be a CCTP domain number",
		}, http.StatusBadRequest)
		return
	}

	if err := Store.SaveSeller(seller); err != nil {
		log.Printf("Error saving seller profile: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to save seller profile"}, http.StatusInternalServerError)
		return
	}

	responseJSON(w, map[string]interface{}{"success": true, "seller": seller}, http.StatusOK)
}
