package cctp

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"gobeampay/config"
	"gobeampay/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const testRecipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func TestBuildPaymentIntent(t *testing.T) {
	order := types.Order{
		ID:            42,
		Amount:        "1.5",
		Wallet:        testRecipient,
		SellerChainID: "6",
	}

	intent, err := BuildPaymentIntent(order, "ethereum", types.SellerProfile{})
	if err != nil {
		t.Fatalf("BuildPaymentIntent: %v", err)
	}

	if intent.AmountBaseUnits != 1500000 {
		t.Fatalf("amount = %d base units, want 1500000", intent.AmountBaseUnits)
	}
	if intent.DestinationDomain != 6 {
		t.Fatalf("destination domain = %d, want 6", intent.DestinationDomain)
	}
	if got := AddressFromPad32(intent.MintRecipient); got != common.HexToAddress(testRecipient) {
		t.Fatalf("mint recipient = %s, want %s", got.Hex(), testRecipient)
	}
	for i := 0; i < 12; i++ {
		if intent.MintRecipient[i] != 0 {
			t.Fatalf("mint recipient byte %d = %#x, want zero padding", i, intent.MintRecipient[i])
		}
	}

	if len(intent.Calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(intent.Calls))
	}

	approve := intent.Calls[0]
	if approve.To != common.HexToAddress(config.USDC_ADDRESS).Hex() {
		t.Fatalf("approve target = %s, want USDC", approve.To)
	}
	if !strings.HasPrefix(approve.Data, "0x095ea7b3") {
		t.Fatalf("approve data has wrong selector: %s", approve.Data[:10])
	}
	if approve.Value != "0x0" {
		t.Fatalf("approve value = %s, want 0x0", approve.Value)
	}

	deposit := intent.Calls[1]
	if deposit.To != common.HexToAddress(config.CCTP_TOKEN_MESSENGER).Hex() {
		t.Fatalf("deposit target = %s, want token messenger", deposit.To)
	}

	data, err := hexutil.Decode(deposit.Data)
	if err != nil {
		t.Fatalf("deposit data is not hex: %v", err)
	}
	args, err := tokenMessengerABI.Methods["depositForBurnWithHook"].Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatalf("cannot unpack deposit data: %v", err)
	}

	if amount := args[0].(*big.Int); amount.Int64() != 1500000 {
		t.Fatalf("burn amount = %s, want 1500000", amount)
	}
	if domain := args[1].(uint32); domain != 6 {
		t.Fatalf("burn destination domain = %d, want 6", domain)
	}
	if recipient := args[2].([32]byte); recipient != intent.MintRecipient {
		t.Fatalf("burn mint recipient mismatch")
	}
	if token := args[3].(common.Address); token != common.HexToAddress(config.USDC_ADDRESS) {
		t.Fatalf("burn token = %s, want USDC", token.Hex())
	}
	if caller := args[4].([32]byte); caller != ([32]byte{}) {
		t.Fatalf("destination caller = %x, want zero", caller)
	}
	if fee := args[5].(*big.Int); fee.Int64() != config.MAX_BRIDGE_FEE {
		t.Fatalf("max fee = %s, want %d", fee, config.MAX_BRIDGE_FEE)
	}
	if threshold := args[6].(uint32); threshold != config.MIN_FINALITY_THRESHOLD {
		t.Fatalf("finality threshold = %d, want %d", threshold, config.MIN_FINALITY_THRESHOLD)
	}
	if hook := args[7].([]byte); string(hook) != "order_42" {
		t.Fatalf("hook data = %q, want %q", hook, "order_42")
	}
	if !strings.Contains(deposit.Data, hex.EncodeToString([]byte("order_42"))) {
		t.Fatalf("hook payload not present in calldata")
	}
}

func TestBuildPaymentIntentDomainFallbacks(t *testing.T) {
	order := types.Order{ID: 1, Amount: "1", Wallet: testRecipient}

	// seller profile supplies the domain when the order has no override
	intent, err := BuildPaymentIntent(order, "base", types.SellerProfile{ChainID: "3"})
	if err != nil {
		t.Fatalf("BuildPaymentIntent: %v", err)
	}
	if intent.DestinationDomain != 3 {
		t.Fatalf("destination domain = %d, want seller's 3", intent.DestinationDomain)
	}

	// nothing configured: Ethereum
	intent, err = BuildPaymentIntent(order, "base", types.SellerProfile{})
	if err != nil {
		t.Fatalf("BuildPaymentIntent: %v", err)
	}
	if intent.DestinationDomain != 0 {
		t.Fatalf("destination domain = %d, want 0", intent.DestinationDomain)
	}

	// order override wins over the profile
	order.SellerChainID = "7"
	intent, err = BuildPaymentIntent(order, "base", types.SellerProfile{ChainID: "3"})
	if err != nil {
		t.Fatalf("BuildPaymentIntent: %v", err)
	}
	if intent.DestinationDomain != 7 {
		t.Fatalf("destination domain = %d, want order's 7", intent.DestinationDomain)
	}
}

func TestBuildPaymentIntentRejects(t *testing.T) {
	valid := types.Order{ID: 1, Amount: "1", Wallet: testRecipient}

	cases := []struct {
		name    string
		mutate  func(o *types.Order)
		network string
		wantErr error
	}{
		{"unknown network", func(o *types.Order) {}, "solana", ErrNetworkUnsupported},
		{"zero amount", func(o *types.Order) { o.Amount = "0" }, "ethereum", ErrInvalidAmount},
		{"negative amount", func(o *types.Order) { o.Amount = "-1" }, "ethereum", ErrInvalidAmount},
		{"garbage amount", func(o *types.Order) { o.Amount = "abc" }, "ethereum", ErrInvalidAmount},
		{"empty recipient", func(o *types.Order) { o.Wallet = "" }, "ethereum", ErrInvalidRecipient},
		{"short recipient", func(o *types.Order) { o.Wallet = "0x1234" }, "ethereum", ErrInvalidRecipient},
		{"bad destination domain", func(o *types.Order) { o.SellerChainID = "mainnet" }, "ethereum", ErrNetworkUnsupported},
	}
	for _, c := range cases {
		order := valid
		c.mutate(&order)
		_, err := BuildPaymentIntent(order, c.network, types.SellerProfile{})
		if !errors.Is(err, c.wantErr) {
			t.Fatalf("%s: got %v, want %v", c.name, err, c.wantErr)
		}
	}
}

func TestLeftPad32RoundTrip(t *testing.T) {
	padded, err := LeftPad32(testRecipient)
	if err != nil {
		t.Fatalf("LeftPad32: %v", err)
	}
	if got := AddressFromPad32(padded); got != common.HexToAddress(testRecipient) {
		t.Fatalf("round trip gave %s", got.Hex())
	}

	if _, err := LeftPad32("not-an-address"); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("LeftPad32 accepted junk: %v", err)
	}
}
