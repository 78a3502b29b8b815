package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gobeampay/cctp"
	"gobeampay/store"
	"gobeampay/types"
	"gobeampay/wallet"

	"github.com/go-chi/chi"
)

type stubWallet struct {
	available bool
	accounts  []string
	chainID   string
	rawResult json.RawMessage
}

func (p *stubWallet) IsAvailable() bool           { return p.available }
func (p *stubWallet) SupportedNetworks() []string { return nil }
func (p *stubWallet) SupportsAtomicBatch() bool   { return true }
func (p *stubWallet) Accounts() ([]string, error) { return p.accounts, nil }
func (p *stubWallet) ChainID() (string, error)    { return p.chainID, nil }
func (p *stubWallet) SendCalls(req wallet.BatchRequest) (json.RawMessage, error) {
	return p.rawResult, nil
}
func (p *stubWallet) CallsStatus(id string) (*wallet.BatchStatus, error) {
	return nil, errors.New("not implemented")
}
func (p *stubWallet) SendTransaction(tx wallet.TxRequest) (string, error) {
	return "", errors.New("not implemented")
}

func testRouter(t *testing.T, provider wallet.Provider, attestationURL string) *chi.Mux {
	dir := t.TempDir()
	s := store.New(
		filepath.Join(dir, "orders.json"),
		filepath.Join(dir, "products.json"),
		filepath.Join(dir, "seller.json"),
	)
	Init(s, wallet.NewEngine(provider), cctp.NewAttestationClient(attestationURL), dir)

	r := chi.NewRouter()
	r.Get("/orders", ListOrders)
	r.Post("/orders", CreateOrder)
	r.Post("/orders/{orderID}/status", UpdateOrderStatus)
	r.Post("/payments/settle", Settle)
	r.Get("/bridge/status/{txHash}", BridgeStatus)
	r.Post("/bridge/mint", BridgeMint)
	r.Get("/eip7702/network/{networkName}", GetNetworkInfo)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("%s %s: response is not a JSON object: %s", method, path, rec.Body.String())
	}
	return rec, parsed
}

func TestCreateOrderAppliesSellerDefaults(t *testing.T) {
	router := testRouter(t, &stubWallet{}, "http://unused")

	if err := Store.SaveSeller(types.SellerProfile{
		WalletAddress: "0x8ba1f109551bD432803012645Ac136ddd64DBA72",
		ChainID:       "6",
	}); err != nil {
		t.Fatalf("SaveSeller: %v", err)
	}

	rec, parsed := doJSON(t, router, "POST", "/orders", `{"productTitle":"mug","customerName":"bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	order := parsed["order"].(map[string]interface{})
	if order["wallet"] != "0x8ba1f109551bD432803012645Ac136ddd64DBA72" {
		t.Fatalf("order wallet = %v, want the seller's", order["wallet"])
	}
	if order["sellerChainId"] != "6" {
		t.Fatalf("order sellerChainId = %v, want 6", order["sellerChainId"])
	}
	if order["amount"] != "1" {
		t.Fatalf("default amount = %v, want 1", order["amount"])
	}
	if order["status"] != types.OrderUnpaid {
		t.Fatalf("order status = %v", order["status"])
	}
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	router := testRouter(t, &stubWallet{}, "http://unused")

	rec, _ := doJSON(t, router, "POST", "/orders/not-a-number/status", `{"status":"paid"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status %d", rec.Code)
	}

	rec, _ = doJSON(t, router, "POST", "/orders/12345/status", `{"status":"paid"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: status %d", rec.Code)
	}

	order := types.Order{Amount: "1"}
	if err := Store.CreateOrder(&order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := Store.MarkPaid(order.ID, "base"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	rec, _ = doJSON(t, router, "POST", fmt.Sprintf("/orders/%d/status", order.ID), `{"status":"unpaid"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("paid->unpaid: status %d", rec.Code)
	}
}

func TestSettleRejections(t *testing.T) {
	router := testRouter(t, &stubWallet{available: false}, "http://unused")

	rec, _ := doJSON(t, router, "POST", "/payments/settle", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status %d", rec.Code)
	}

	rec, _ = doJSON(t, router, "POST", "/payments/settle", `{"network":"solana","orderId":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown network: status %d", rec.Code)
	}

	rec, _ = doJSON(t, router, "POST", "/payments/settle", `{"network":"base","orderId":12345}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: status %d", rec.Code)
	}

	order := types.Order{Amount: "1", Wallet: "0x8ba1f109551bD432803012645Ac136ddd64DBA72"}
	if err := Store.CreateOrder(&order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := Store.MarkPaid(order.ID, "base"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	rec, _ = doJSON(t, router, "POST", "/payments/settle", fmt.Sprintf(`{"network":"base","orderId":%d}`, order.ID))
	if rec.Code != http.StatusConflict {
		t.Fatalf("already paid order: status %d", rec.Code)
	}

	time.Sleep(2 * time.Millisecond) // ids are creation millis
	unpaid := types.Order{Amount: "1", Wallet: "0x8ba1f109551bD432803012645Ac136ddd64DBA72"}
	if err := Store.CreateOrder(&unpaid); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	rec, _ = doJSON(t, router, "POST", "/payments/settle", fmt.Sprintf(`{"network":"base","orderId":%d}`, unpaid.ID))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no wallet: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestBridgeStatusEndpoint(t *testing.T) {
	attestation := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"messages":[{"status":"pending","decodedMessage":{"sourceDomain":"0","destinationDomain":"6","decodedMessageBody":{"amount":"1000000"}}}]}`)
	}))
	defer attestation.Close()

	router := testRouter(t, &stubWallet{}, attestation.URL)

	rec, _ := doJSON(t, router, "GET", "/bridge/status/0xshort", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad hash: status %d", rec.Code)
	}

	hash := "0x" + strings.Repeat("ab", 32)
	rec, parsed := doJSON(t, router, "GET", "/bridge/status/"+hash, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if parsed["status"] != types.BridgePending {
		t.Fatalf("bridge status = %v", parsed["status"])
	}
}

func TestBridgeMintRefusesIncompleteMessage(t *testing.T) {
	attestation := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"messages":[{"status":"pending","decodedMessage":{"sourceDomain":"0","destinationDomain":"6","decodedMessageBody":{"amount":"1000000"}}}]}`)
	}))
	defer attestation.Close()

	router := testRouter(t, &stubWallet{available: true, chainID: "0x2105"}, attestation.URL)

	hash := "0x" + strings.Repeat("ab", 32)
	rec, parsed := doJSON(t, router, "POST", "/bridge/mint", fmt.Sprintf(`{"txHash":"%s","network":"base"}`, hash))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("pending message mint: status %d, body %s", rec.Code, rec.Body.String())
	}
	if parsed["success"] != false {
		t.Fatalf("mint reported success on a pending message")
	}
}

func TestGetNetworkInfo(t *testing.T) {
	router := testRouter(t, &stubWallet{}, "http://unused")

	rec, parsed := doJSON(t, router, "GET", "/eip7702/network/base", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	info := parsed["networkInfo"].(map[string]interface{})
	if info["chainId"] != "0x2105" || info["cctpDomain"].(float64) != 6 {
		t.Fatalf("network info = %+v", info)
	}

	rec, _ = doJSON(t, router, "GET", "/eip7702/network/solana", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown network: status %d", rec.Code)
	}
}
