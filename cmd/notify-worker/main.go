package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmuigai-sys/hosq/internal/config"
	"github.com/pmuigai-sys/hosq/internal/store/postgres"
	"github.com/pmuigai-sys/hosq/internal/telemetry"
	"github.com/pmuigai-sys/hosq/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("notify-worker", cfg.OTELEndpoint, cfg.OTELInsecure)

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	st := postgres.NewStore(pool)
	provider := worker.NewProvider(cfg.SMSProvider, worker.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	})
	w := worker.New(st, worker.Config{
		BatchSize: cfg.NotifyBatchSize,
		Provider:  provider,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("notify-worker polling every %s", cfg.NotifyPollInterval)
	go worker.Start(ctx, cfg.NotifyPollInterval, w)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = shutdownTelemetry(shutdownCtx)
}
