package cctp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"gobeampay/types"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// AttestationClient queries Circle's public attestation API for bridge
// message status.
type AttestationClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAttestationClient(baseURL string) *AttestationClient {
	return &AttestationClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type attestedMessage struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	Attestation    string `json:"attestation"`
	EventNonce     string `json:"eventNonce"`
	DecodedMessage struct {
		SourceDomain      string `json:"sourceDomain"`
		DestinationDomain string `json:"destinationDomain"`
		DecodedMessageBody struct {
			Amount        string `json:"amount"`
			MintRecipient string `json:"mintRecipient"`
		} `json:"decodedMessageBody"`
	} `json:"decodedMessage"`
}

type messagesResponse struct {
	Messages []attestedMessage `json:"messages"`
}

// CheckStatus tries the candidate source domains in order and returns
// the first domain's known message. The caller often does not know which
// chain actually originated the hash, so 404/empty advances to the next
// candidate; any other failure stops the scan with an error status.
func (c *AttestationClient) CheckStatus(txHash string, candidateDomains []uint32) *types.BridgeMessage {
	for _, domain := range candidateDomains {
		msg, found, err := c.queryDomain(domain, txHash)
		if err != nil {
			return &types.BridgeMessage{
				Status:    types.BridgeError,
				Timestamp: time.Now().Unix(),
				Error:     err.Error(),
			}
		}
		if found {
			return msg
		}
	}
	return &types.BridgeMessage{
		Status:    types.BridgeNotFound,
		Timestamp: time.Now().Unix(),
	}
}

// queryDomain returns (msg, true, nil) when the domain knows the hash,
// (nil, false, nil) when it does not (404 or empty message list), and an
// error for transport or service failures.
func (c *AttestationClient) queryDomain(domain uint32, txHash string) (*types.BridgeMessage, bool, error) {
	url := fmt.Sprintf("%s/v2/messages/%d?transactionHash=%s", c.BaseURL, domain, txHash)

	resp, err := c.HTTP.Get(url)
	if err != nil {
		return nil, false, fmt.Errorf("attestation service unreachable: %s", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("attestation service returned HTTP %d for domain %d", resp.StatusCode, domain)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("cannot read attestation response: %s", err.Error())
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("malformed attestation response: %s", err.Error())
	}

	if len(parsed.Messages) == 0 {
		return nil, false, nil
	}

	return bridgeMessageFrom(parsed.Messages[0], domain), true, nil
}

func bridgeMessageFrom(m attestedMessage, queriedDomain uint32) *types.BridgeMessage {
	msg := &types.BridgeMessage{
		Status:       m.Status,
		SourceDomain: queriedDomain,
		Timestamp:    time.Now().Unix(),
	}

	if d, err := strconv.ParseUint(m.DecodedMessage.SourceDomain, 10, 32); err == nil {
		msg.SourceDomain = uint32(d)
	}
	if d, err := strconv.ParseUint(m.DecodedMessage.DestinationDomain, 10, 32); err == nil {
		msg.DestinationDomain = uint32(d)
	}
	if units, err := strconv.ParseInt(m.DecodedMessage.DecodedMessageBody.Amount, 10, 64); err == nil {
		msg.Amount = FromBaseUnits(units)
	}
	msg.Recipient = m.DecodedMessage.DecodedMessageBody.MintRecipient

	// keccak of the wire message identifies it across the protocol
	if raw, err := hexutil.Decode(m.Message); err == nil && len(raw) > 0 {
		msg.MessageHash = crypto.Keccak256Hash(raw).Hex()
	}

	// message and attestation bytes only show up once status is complete
	if m.Status == types.BridgeComplete {
		msg.MessageBytes = m.Message
		msg.AttestationBytes = m.Attestation
	}

	return msg
}
