package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/ybbus/jsonrpc"
)

// RPCProvider speaks to a wallet RPC bridge endpoint (an injected
// provider exposed over JSON-RPC).
type RPCProvider struct {
	endpoint string
	networks []string
	atomic   bool
	client   jsonrpc.RPCClient
}

func NewRPCProvider(endpoint string, networks []string) *RPCProvider {
	return &RPCProvider{
		endpoint: endpoint,
		networks: networks,
		atomic:   true,
		client:   jsonrpc.NewClient(endpoint),
	}
}

func (p *RPCProvider) IsAvailable() bool {
	return p.endpoint != ""
}

func (p *RPCProvider) SupportedNetworks() []string {
	return p.networks
}

func (p *RPCProvider) SupportsAtomicBatch() bool {
	return p.atomic
}

func (p *RPCProvider) call(method string, params ...interface{}) (*jsonrpc.RPCResponse, error) {
	resp, err := p.client.Call(method, params...)
	if err != nil {
		return nil, fmt.Errorf("wallet RPC %s: %s", method, err.Error())
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("wallet rejected %s: %s", method, resp.Error.Message)
	}
	return resp, nil
}

func (p *RPCProvider) Accounts() ([]string, error) {
	resp, err := p.call("eth_requestAccounts")
	if err != nil {
		return nil, err
	}
	var accounts []string
	if err := resp.GetObject(&accounts); err != nil {
		return nil, fmt.Errorf("cannot decode accounts: %s", err.Error())
	}
	return accounts, nil
}

func (p *RPCProvider) ChainID() (string, error) {
	resp, err := p.call("eth_chainId")
	if err != nil {
		return "", err
	}
	return resp.GetString()
}

func (p *RPCProvider) SendCalls(req BatchRequest) (json.RawMessage, error) {
	resp, err := p.call("wallet_sendCalls", []interface{}{req})
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("cannot re-encode wallet_sendCalls result: %s", err.Error())
	}
	return raw, nil
}

func (p *RPCProvider) CallsStatus(id string) (*BatchStatus, error) {
	resp, err := p.call("wallet_getCallsStatus", []interface{}{id})
	if err != nil {
		return nil, err
	}
	var status BatchStatus
	if err := resp.GetObject(&status); err != nil {
		return nil, fmt.Errorf("cannot decode batch status: %s", err.Error())
	}
	return &status, nil
}

func (p *RPCProvider) SendTransaction(tx TxRequest) (string, error) {
	resp, err := p.call("eth_sendTransaction", []interface{}{tx})
	if err != nil {
		return "", err
	}
	return resp.GetString()
}
