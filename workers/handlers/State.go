package handlers

import (
	"net/http"
)

// liveness probe for the storefront page
func State(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &APIStateResponse{
		Status: "ok",
	}, http.StatusOK)
}
