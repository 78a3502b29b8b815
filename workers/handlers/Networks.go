package handlers

import (
	"fmt"
	"net/http"

	"gobeampay/config"

	"github.com/go-chi/chi"
)

func GetNetworkInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "networkName")
	if !config.KnownChain(name) {
		responseJSON(w, &NetworkInfoResponse{
			Success: false,
			Error:   fmt.Sprintf("Network %s not supported", name),
		}, http.StatusBadRequest)
		return
	}

	chain := config.ResolveChain(name)
	responseJSON(w, &NetworkInfoResponse{
		Success: true,
		NetworkInfo: &NetworkInfo{
			NetworkID:          chain.ChainID,
			NetworkName:        chain.Name,
			ChainID:            chain.HexChainID,
			CCTPDomain:         chain.CCTPDomain,
			TokenMessenger:     chain.TokenMessenger,
			MessageTransmitter: chain.MessageTransmitter,
			ExplorerURL:        chain.ExplorerURL,
		},
	}, http.StatusOK)
}
