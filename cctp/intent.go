package cctp

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gobeampay/config"
	"gobeampay/types"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrInvalidAmount      = errors.New("invalid payment amount")
	ErrInvalidRecipient   = errors.New("invalid recipient address")
	ErrNetworkUnsupported = errors.New("network not supported")
)

const usdcABIJSON = `[{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}]`

const tokenMessengerABIJSON = `[{"name":"depositForBurnWithHook","type":"function","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"destinationDomain","type":"uint32"},{"name":"mintRecipient","type":"bytes32"},{"name":"burnToken","type":"address"},{"name":"destinationCaller","type":"bytes32"},{"name":"maxFee","type":"uint256"},{"name":"minFinalityThreshold","type":"uint32"},{"name":"hookData","type":"bytes"}],"outputs":[]}]`

const messageTransmitterABIJSON = `[{"name":"receiveMessage","type":"function","stateMutability":"nonpayable","inputs":[{"name":"message","type":"bytes"},{"name":"attestation","type":"bytes"}],"outputs":[{"name":"success","type":"bool"}]}]`

var (
	usdcABI               abi.ABI
	tokenMessengerABI     abi.ABI
	messageTransmitterABI abi.ABI
)

func init() {
	var err error
	usdcABI, err = abi.JSON(strings.NewReader(usdcABIJSON))
	if err != nil {
		panic(err)
	}
	tokenMessengerABI, err = abi.JSON(strings.NewReader(tokenMessengerABIJSON))
	if err != nil {
		panic(err)
	}
	messageTransmitterABI, err = abi.JSON(strings.NewReader(messageTransmitterABIJSON))
	if err != nil {
		panic(err)
	}
}

// PaymentIntent is the encoded approve+burn pair for one order, ready
// for batch submission on the source chain.
type PaymentIntent struct {
	OrderID           int64
	SourceNetwork     string
	AmountBaseUnits   int64
	DestinationDomain uint32
	MintRecipient     [32]byte
	Calls             []types.Call // approve, then depositForBurnWithHook
}

// LeftPad32 encodes a 20-byte EVM address as the 32-byte mint-recipient
// format CCTP uses: right-aligned, leading 12 bytes zero.
func LeftPad32(address string) ([32]byte, error) {
	var out [32]byte
	if !common.IsHexAddress(address) {
		return out, ErrInvalidRecipient
	}
	copy(out[12:], common.HexToAddress(address).Bytes())
	return out, nil
}

// AddressFromPad32 recovers the EVM address from a 32-byte recipient.
func AddressFromPad32(padded [32]byte) common.Address {
	return common.BytesToAddress(padded[12:])
}

func validateRecipient(address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, address)
	}
	if err := ethav.Validate(common.HexToAddress(address).Hex()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, err.Error())
	}
	return nil
}

// BuildPaymentIntent encodes the two source-chain calls for an order.
// All validation happens here, before any wallet interaction: a
// malformed recipient would burn funds with no possible mint.
func BuildPaymentIntent(order types.Order, sourceNetwork string, seller types.SellerProfile) (*PaymentIntent, error) {
	if !config.KnownChain(sourceNetwork) {
		return nil, fmt.Errorf("%w: %q", ErrNetworkUnsupported, sourceNetwork)
	}
	chain := config.ResolveChain(sourceNetwork)

	amount, err := ToBaseUnits(order.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err.Error())
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %q", ErrInvalidAmount, order.Amount)
	}

	if err := validateRecipient(order.Wallet); err != nil {
		return nil, err
	}

	destDomain, err := destinationDomain(order, seller)
	if err != nil {
		return nil, err
	}

	mintRecipient, err := LeftPad32(order.Wallet)
	if err != nil {
		return nil, err
	}

	messenger := common.HexToAddress(chain.TokenMessenger)
	usdc := common.HexToAddress(config.USDC_ADDRESS)

	approveData, err := usdcABI.Pack("approve", messenger, big.NewInt(amount))
	if err != nil {
		return nil, fmt.Errorf("cannot encode approve: %s", err.Error())
	}

	// hookData carries the order correlation id for off-chain matching
	hookData := []byte(fmt.Sprintf("order_%d", order.ID))

	var destinationCaller [32]byte // zero: any address may trigger the mint
	depositData, err := tokenMessengerABI.Pack(
		"depositForBurnWithHook",
		big.NewInt(amount),
		destDomain,
		mintRecipient,
		usdc,
		destinationCaller,
		big.NewInt(config.MAX_BRIDGE_FEE),
		uint32(config.MIN_FINALITY_THRESHOLD),
		hookData,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot encode depositForBurnWithHook: %s", err.Error())
	}

	return &PaymentIntent{
		OrderID:           order.ID,
		SourceNetwork:     sourceNetwork,
		AmountBaseUnits:   amount,
		DestinationDomain: destDomain,
		MintRecipient:     mintRecipient,
		Calls: []types.Call{
			{To: usdc.Hex(), Data: hexutil.Encode(approveData), Value: "0x0"},
			{To: messenger.Hex(), Data: hexutil.Encode(depositData), Value: "0x0"},
		},
	}, nil
}

// destinationDomain prefers the order's explicit override, then the
// seller profile's configured domain.
func destinationDomain(order types.Order, seller types.SellerProfile) (uint32, error) {
	raw := order.SellerChainID
	if raw == "" {
		raw = seller.ChainID
	}
	if raw == "" {
		return 0, nil
	}
	domain, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad destination domain %q", ErrNetworkUnsupported, raw)
	}
	return uint32(domain), nil
}
