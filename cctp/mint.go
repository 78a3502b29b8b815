package cctp

import (
	"errors"
	"fmt"
	"strings"

	"gobeampay/config"
	"gobeampay/types"
	"gobeampay/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrMintPrecondition = errors.New("mint preconditions not met")
	ErrWrongWalletChain = errors.New("wallet is on the wrong chain")
)

// Mint submits receiveMessage on the destination chain to finalize the
// bridged USDC. Every precondition is checked before any wallet
// interaction. A second mint of the same message reverts on-chain; that
// revert is a benign outcome, not a system error.
func Mint(provider wallet.Provider, msg *types.BridgeMessage, destNetwork string) (string, error) {
	if msg == nil {
		return "", fmt.Errorf("%w: no bridge message", ErrMintPrecondition)
	}
	if msg.Status != types.BridgeComplete {
		return "", fmt.Errorf("%w: message status is %q, need %q", ErrMintPrecondition, msg.Status, types.BridgeComplete)
	}
	if msg.MessageBytes == "" || msg.AttestationBytes == "" {
		return "", fmt.Errorf("%w: message or attestation bytes missing", ErrMintPrecondition)
	}
	if !config.KnownChain(destNetwork) {
		return "", fmt.Errorf("%w: %q", ErrNetworkUnsupported, destNetwork)
	}

	chain := config.ResolveChain(destNetwork)
	if chain.CCTPDomain != msg.DestinationDomain {
		return "", fmt.Errorf("%w: message targets domain %d but %s is domain %d",
			ErrMintPrecondition, msg.DestinationDomain, destNetwork, chain.CCTPDomain)
	}

	if provider == nil || !provider.IsAvailable() {
		return "", wallet.ErrWalletUnavailable
	}

	// never auto-switch the wallet's network: a forced switch risks a
	// stale nonce/signer state, the user has to switch by hand
	walletChain, err := provider.ChainID()
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(walletChain, chain.HexChainID) {
		return "", fmt.Errorf("%w: wallet is on chain %s, switch to %s (%s) manually",
			ErrWrongWalletChain, walletChain, destNetwork, chain.HexChainID)
	}

	messageBytes, err := hexutil.Decode(msg.MessageBytes)
	if err != nil {
		return "", fmt.Errorf("%w: bad message bytes: %s", ErrMintPrecondition, err.Error())
	}
	attestationBytes, err := hexutil.Decode(msg.AttestationBytes)
	if err != nil {
		return "", fmt.Errorf("%w: bad attestation bytes: %s", ErrMintPrecondition, err.Error())
	}

	data, err := messageTransmitterABI.Pack("receiveMessage", messageBytes, attestationBytes)
	if err != nil {
		return "", fmt.Errorf("cannot encode receiveMessage: %s", err.Error())
	}

	accounts, err := provider.Accounts()
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", wallet.ErrNoAccount
	}

	return provider.SendTransaction(wallet.TxRequest{
		From:  accounts[0],
		To:    common.HexToAddress(chain.MessageTransmitter).Hex(),
		Data:  hexutil.Encode(data),
		Value: "0x0",
	})
}
