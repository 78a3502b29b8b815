package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gobeampay/cctp"
	"gobeampay/config"
	"gobeampay/redis"
	"gobeampay/store"
	"gobeampay/wallet"
	"gobeampay/workers"
	"gobeampay/workers/handlers"
)

func main() {
	log.Print("Starting BeamPay settlement service")

	f, err := os.OpenFile(fmt.Sprintf("logs/log_%s.txt", time.Now().Format("2006-01-02")), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file for writing: %v", err)
	}
	defer f.Close()

	log.SetOutput(f)

	config.Init()

	// connect to Redis, without persistence do not continue
	redis.Init()

	s := store.New(
		config.Config.Store.OrdersPath,
		config.Config.Store.ProductsPath,
		config.Config.Store.SellerPath,
	)

	provider := wallet.NewRPCProvider(config.Config.Wallet.Endpoint, config.Config.Wallet.Networks)
	engine := wallet.NewEngine(provider)
	attestation := cctp.NewAttestationClient(config.Config.Attestation.BaseURL)

	handlers.Init(s, engine, attestation, config.Config.Store.UploadsDir)

	// worker threads:
	// * one payment-confirmation scanner per enabled chain
	// * settlement record reconciler
	// * API serving HTTP server (serves as main worker thread)
	for _, network := range config.EnabledChains() {
		go workers.Worker_scanPayments(network, s)
	}
	go workers.Worker_processSettlements(s)

	workers.Worker_HTTP()
}
