package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"gobeampay/types"
)

func ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := Store.Products()
	if err != nil {
		log.Printf("Error reading products: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to read products"}, http.StatusInternalServerError)
		return
	}
	responseJSON(w, products, http.StatusOK)
}

func CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product types.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	if product.Title == "" {
		responseJSON(w, &APIResponse{Status: "error", Field: "title", Message: "Product title is required"}, http.StatusBadRequest)
		return
	}

	if err := Store.CreateProduct(&product); err != nil {
		log.Printf("Error saving product: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to write products"}, http.StatusInternalServerError)
		return
	}

	responseJSON(w, map[string]interface{}{"success": true, "product": product}, http.StatusOK)
}
