package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"gobeampay/store"
	"gobeampay/types"

	"github.com/go-chi/chi"
)

func ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := Store.Orders()
	if err != nil {
		log.Printf("Error reading orders: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to read orders"}, http.StatusInternalServerError)
		return
	}
	responseJSON(w, orders, http.StatusOK)
}

func CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Error reading request body"}, http.StatusBadRequest)
		return
	}

	var order types.Order
	if err := json.Unmarshal(body, &order); err != nil {
		log.Printf("Error unmarshalling order: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	// destination defaults come from the seller profile; an order may
	// still carry its own wallet/domain override
	seller, err := Store.Seller()
	if err == nil {
		if order.Wallet == "" {
			order.Wallet = seller.WalletAddress
		}
		if order.SellerChainID == "" {
			order.SellerChainID = seller.ChainID
		}
	}

	if order.Amount == "" {
		order.Amount = "1"
	}

	if err := Store.CreateOrder(&order); err != nil {
		log.Printf("Error saving order: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to write orders"}, http.StatusInternalServerError)
		return
	}

	log.Printf("New order %d created for product %q", order.ID, order.ProductTitle)
	responseJSON(w, map[string]interface{}{"success": true, "order": order}, http.StatusOK)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Field: "orderId", Message: "Invalid order id"}, http.StatusBadRequest)
		return
	}

	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	err = Store.SetOrderStatus(orderID, req.Status)
	if errors.Is(err, store.ErrOrderNotFound) {
		responseJSON(w, &APIResponse{Status: "error", Message: "Order not found"}, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error updating order %d status: %s", orderID, err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: err.Error()}, http.StatusBadRequest)
		return
	}

	responseJSON(w, map[string]interface{}{
		"success": true,
		"message": "Order " + strconv.FormatInt(orderID, 10) + " status updated to " + req.Status,
	}, http.StatusOK)
}

func DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Field: "orderId", Message: "Invalid order id"}, http.StatusBadRequest)
		return
	}

	err = Store.DeleteOrder(orderID)
	if errors.Is(err, store.ErrOrderNotFound) {
		responseJSON(w, &APIResponse{Status: "error", Message: "Order not found"}, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error deleting order %d: %s", orderID, err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to delete order"}, http.StatusInternalServerError)
		return
	}

	responseJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}
