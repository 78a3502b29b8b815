package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// reading config error is fatal, and exists main thread
func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}

func readFile(cfg *Configuration) {
	f, err := os.Open("config.yml")
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		processError(err)
	}
}

func readEnv(cfg *Configuration) {
	err := envconfig.Process("", cfg)
	if err != nil {
		processError(err)
	}
}

func applyDefaults(cfg *Configuration) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Store.OrdersPath == "" {
		cfg.Store.OrdersPath = "data/orders.json"
	}
	if cfg.Store.ProductsPath == "" {
		cfg.Store.ProductsPath = "data/products.json"
	}
	if cfg.Store.SellerPath == "" {
		cfg.Store.SellerPath = "data/seller.json"
	}
	if cfg.Store.UploadsDir == "" {
		cfg.Store.UploadsDir = "data/uploads"
	}
	if cfg.Attestation.BaseURL == "" {
		cfg.Attestation.BaseURL = "https://iris-api.circle.com"
	}
	if cfg.ScanIntervalSec == 0 {
		cfg.ScanIntervalSec = 5
	}
}

func Init() {
	readFile(&Config)
	readEnv(&Config)
	applyDefaults(&Config)
}
