package config

type Configuration struct {
	// Server config
	Server struct {
		UseSSL    bool   `yaml:"ssl"`
		Port      int    `yaml:"port"`
		RedisPort int    `yaml:"redis_port"`
		RedisHost string `yaml:"redis_host"`
	} `yaml:"server"`
	// storefront data files, full-replace JSON documents
	Store struct {
		OrdersPath   string `yaml:"orders_path"`
		ProductsPath string `yaml:"products_path"`
		SellerPath   string `yaml:"seller_path"`
		UploadsDir   string `yaml:"uploads_dir"`
	} `yaml:"store"`
	// wallet provider RPC bridge endpoint
	Wallet struct {
		Endpoint string   `yaml:"endpoint"`
		Networks []string `yaml:"networks"`
	} `yaml:"wallet"`
	// Circle attestation service
	Attestation struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"attestation"`
	ScanIntervalSec int `yaml:"scan_interval_sec"`
}

var Config Configuration

// USDC contract, same token on every supported chain
const USDC_ADDRESS = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

// CCTP V2 mainnet deployments, identical address on all chains
const CCTP_TOKEN_MESSENGER = "0x28b5a0e9C621a5BadaA536219b3a228C8168cf5d"
const CCTP_MESSAGE_TRANSMITTER = "0x81D40F21F12A8F0E3252Bccb954D722d4c464B64"

// merchant contract payment-confirmation log topic to look for
const PAYMENT_EVENT_TOPIC = "0x71b4e18d983a3d72dfd6b1450d60c020be859bd1f345a9c61fd7a0c9dc2b3502"

// maximum number of EVM RPC retries
const EVM_RETRIES = 3

// fixed bridge fee budget, 0.01 USDC in base units
const MAX_BRIDGE_FEE = 10000

// finality tier requested from the attestation service ("fast")
const MIN_FINALITY_THRESHOLD = 100

// USDC uses 6-decimal fixed point everywhere
const USDC_DECIMALS = 6

type ChainConfig struct {
	Name               string
	ChainID            int
	HexChainID         string
	RPCList            []string
	CCTPDomain         uint32
	TokenMessenger     string
	MessageTransmitter string
	MerchantContract   string // payment-confirmation event emitter
	EventTopic         string
	ExplorerURL        string
	Enabled            bool // scanned by the reconciliation worker
	BlockBatch         int
}

var CCTPChains = map[string]ChainConfig{
	"ethereum": {
		Name:               "ethereum",
		ChainID:            1,
		HexChainID:         "0x1",
		RPCList:            []string{"https://eth.drpc.org", "https://eth.llamarpc.com"},
		CCTPDomain:         0,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		MerchantContract:   "0x2BfC586A555bFd792b9a8b0936277b515CF45773",
		EventTopic:         PAYMENT_EVENT_TOPIC,
		ExplorerURL:        "https://etherscan.io",
		Enabled:            true,
		BlockBatch:         512,
	},
	"avalanche": {
		Name:               "avalanche",
		ChainID:            43114,
		HexChainID:         "0xa86a",
		RPCList:            []string{"https://api.avax.network/ext/bc/C/rpc"},
		CCTPDomain:         1,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		ExplorerURL:        "https://snowtrace.io",
		BlockBatch:         512,
	},
	"optimism": {
		Name:               "optimism",
		ChainID:            10,
		HexChainID:         "0xa",
		RPCList:            []string{"https://mainnet.optimism.io", "https://optimism.drpc.org"},
		CCTPDomain:         2,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		ExplorerURL:        "https://optimistic.etherscan.io",
		BlockBatch:         512,
	},
	"arbitrum": {
		Name:               "arbitrum",
		ChainID:            42161,
		HexChainID:         "0xa4b1",
		RPCList:            []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.drpc.org"},
		CCTPDomain:         3,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		ExplorerURL:        "https://arbiscan.io",
		BlockBatch:         512,
	},
	"base": {
		Name:               "base",
		ChainID:            8453,
		HexChainID:         "0x2105",
		RPCList:            []string{"https://mainnet.base.org", "https://base.drpc.org"},
		CCTPDomain:         6,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		MerchantContract:   "0xf9397f60c1a45c572132e9e0da89f5e7e71da2ef",
		EventTopic:         PAYMENT_EVENT_TOPIC,
		ExplorerURL:        "https://basescan.org",
		BlockBatch:         512,
	},
	"polygon": {
		Name:               "polygon",
		ChainID:            137,
		HexChainID:         "0x89",
		RPCList:            []string{"https://polygon-rpc.com"},
		CCTPDomain:         7,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		ExplorerURL:        "https://polygonscan.com",
		BlockBatch:         512,
	},
	"linea": {
		Name:               "linea",
		ChainID:            59144,
		HexChainID:         "0xe708",
		RPCList:            []string{"https://rpc.linea.build"},
		CCTPDomain:         11,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		ExplorerURL:        "https://lineascan.build",
		BlockBatch:         512,
	},
	"worldchain": {
		Name:               "worldchain",
		ChainID:            480,
		HexChainID:         "0x1e0",
		RPCList:            []string{"https://worldchain-mainnet.g.alchemy.com/public"},
		CCTPDomain:         14,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		ExplorerURL:        "https://worldscan.org",
		BlockBatch:         512,
	},
	"zircuit": {
		Name:               "zircuit",
		ChainID:            48900,
		HexChainID:         "0xbf04",
		RPCList:            []string{"https://zircuit-mainnet.drpc.org"},
		CCTPDomain:         48900,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		MerchantContract:   "0x04fd13aED1B64639CCcCeeF1492741835ADCc15F",
		EventTopic:         PAYMENT_EVENT_TOPIC,
		ExplorerURL:        "https://explorer.zircuit.com",
		Enabled:            true,
		BlockBatch:         512,
	},
	"flow": {
		Name:               "flow",
		ChainID:            747,
		HexChainID:         "0x2eb",
		RPCList:            []string{"https://mainnet.evm.nodes.onflow.org"},
		CCTPDomain:         747,
		TokenMessenger:     CCTP_TOKEN_MESSENGER,
		MessageTransmitter: CCTP_MESSAGE_TRANSMITTER,
		MerchantContract:   "0xEF96A222dEb97BeE8c7c6D24A64a7eb47C2d1186",
		EventTopic:         PAYMENT_EVENT_TOPIC,
		ExplorerURL:        "https://evm.flowscan.io",
		Enabled:            true,
		BlockBatch:         512,
	},
}

// fixed priority of source domains tried by the bridge status poller,
// most-used chains first. Every registry chain must appear here: a burn
// on a chain missing from the list could never be located.
var DomainPriority = []uint32{0, 6, 1, 2, 3, 7, 11, 14, 48900, 747}

// ResolveChain is total: unknown names fall back to the Ethereum entry.
// Callers routing funds must check KnownChain first, a silent Ethereum
// fallback on a typo would misroute the mint.
func ResolveChain(name string) ChainConfig {
	if c, ok := CCTPChains[name]; ok {
		return c
	}
	return CCTPChains["ethereum"]
}

func KnownChain(name string) bool {
	_, ok := CCTPChains[name]
	return ok
}

// ChainByDomain finds the registry entry for a CCTP domain number.
func ChainByDomain(domain uint32) (ChainConfig, bool) {
	for _, c := range CCTPChains {
		if c.CCTPDomain == domain {
			return c, true
		}
	}
	return ChainConfig{}, false
}

// EnabledChains returns the names of chains watched by the scanner.
func EnabledChains() []string {
	names := make([]string, 0, len(CCTPChains))
	for name, c := range CCTPChains {
		if c.Enabled {
			names = append(names, name)
		}
	}
	return names
}

var SettlementStatusSets = map[string]string{
	"submitted": "settlements:submitted", // batch accepted by the wallet, burn tx hash recorded
	"confirmed": "settlements:confirmed", // matching order observed paid on-chain
	"failed":    "settlements:failed",    // wallet rejected or batch never resolved
}
