package config

import (
	"strconv"
	"strings"
	"testing"
)

func TestResolveChain(t *testing.T) {
	base := ResolveChain("base")
	if base.CCTPDomain != 6 || base.ChainID != 8453 {
		t.Fatalf("base = %+v", base)
	}

	// unknown names resolve to the Ethereum entry
	fallback := ResolveChain("no-such-chain")
	if fallback.Name != "ethereum" {
		t.Fatalf("fallback = %s, want ethereum", fallback.Name)
	}

	if KnownChain("no-such-chain") {
		t.Fatalf("KnownChain accepted an unknown name")
	}
	if !KnownChain("arbitrum") {
		t.Fatalf("KnownChain rejected arbitrum")
	}
}

func TestChainByDomain(t *testing.T) {
	chain, ok := ChainByDomain(6)
	if !ok || chain.Name != "base" {
		t.Fatalf("domain 6 = %+v (%v)", chain, ok)
	}
	if _, ok := ChainByDomain(999); ok {
		t.Fatalf("unknown domain resolved")
	}
}

func TestChainRegistryConsistency(t *testing.T) {
	for name, chain := range CCTPChains {
		if chain.Name != name {
			t.Fatalf("%s: Name field is %q", name, chain.Name)
		}
		if len(chain.RPCList) == 0 {
			t.Fatalf("%s: no RPC endpoints", name)
		}
		if chain.TokenMessenger != CCTP_TOKEN_MESSENGER {
			t.Fatalf("%s: token messenger %s", name, chain.TokenMessenger)
		}
		if chain.MessageTransmitter != CCTP_MESSAGE_TRANSMITTER {
			t.Fatalf("%s: message transmitter %s", name, chain.MessageTransmitter)
		}

		if !strings.HasPrefix(chain.HexChainID, "0x") {
			t.Fatalf("%s: hex chain id %q", name, chain.HexChainID)
		}
		parsed, err := strconv.ParseInt(chain.HexChainID[2:], 16, 64)
		if err != nil || parsed != int64(chain.ChainID) {
			t.Fatalf("%s: hex chain id %s does not match chain id %d", name, chain.HexChainID, chain.ChainID)
		}

		if chain.Enabled {
			if chain.MerchantContract == "" {
				t.Fatalf("%s: enabled chain has no merchant contract", name)
			}
			if chain.EventTopic != PAYMENT_EVENT_TOPIC {
				t.Fatalf("%s: enabled chain has topic %q", name, chain.EventTopic)
			}
		}
	}
}

func TestDomainPriorityResolvable(t *testing.T) {
	seen := map[uint32]bool{}
	for _, domain := range DomainPriority {
		if seen[domain] {
			t.Fatalf("domain %d listed twice", domain)
		}
		seen[domain] = true
		if _, ok := ChainByDomain(domain); !ok {
			t.Fatalf("priority domain %d has no registry entry", domain)
		}
	}

	// every chain accepted as a burn source must be findable by the
	// bridge status poller
	for name, chain := range CCTPChains {
		if !seen[chain.CCTPDomain] {
			t.Fatalf("%s (domain %d) missing from DomainPriority", name, chain.CCTPDomain)
		}
	}
}

func TestEnabledChains(t *testing.T) {
	enabled := EnabledChains()
	if len(enabled) == 0 {
		t.Fatalf("no chains enabled for scanning")
	}
	for _, name := range enabled {
		if !CCTPChains[name].Enabled {
			t.Fatalf("%s reported enabled", name)
		}
	}
}
