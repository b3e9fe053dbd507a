package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-bidding/internal/biddingService"
	"auction-bidding/internal/config"
	"auction-bidding/internal/identity"
	model "auction-bidding/internal/models"
	"auction-bidding/internal/notify"
	"auction-bidding/internal/repository"
	"auction-bidding/internal/server"
	"auction-bidding/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const systemSellerID = "system"

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	utils.ConfigureLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepository(cfg)
	defer closeRepo()

	if cfg.SeedSampleItems {
		prepopulateItems(ctx, repo)
	}

	tokens := identity.NewJWTResolver(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hub := notify.NewHub()
	outbox := notify.NewOutbox(cfg.OutboxSize, hub)
	go outbox.Run(ctx)

	biddingSvc := bidding.NewBiddingService(repo, tokens, bidding.WithNotifier(outbox))
	go biddingSvc.RunClosureSweep(ctx, cfg.SweepInterval)

	router := server.SetupRouter(biddingSvc, hub)
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.Port, "durable": cfg.DBPath != ""})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openRepository picks the sqlite store when DB_PATH is set, the in-memory one otherwise
func openRepository(cfg config.Config) (repository.AuctionDB, func()) {
	if cfg.DBPath == "" {
		return repository.NewMemoryRepo(), func() {}
	}
	repo, err := repository.NewSQLiteRepo(cfg.DBPath)
	if err != nil {
		utils.Fatal("failed to open database", map[string]any{"path": cfg.DBPath, "error": err.Error()})
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			utils.Warn("closing database", map[string]any{"error": err.Error()})
		}
	}
}

// prepopulateItems adds sample items when the store is empty
func prepopulateItems(ctx context.Context, repo repository.AuctionDB) {
	existing, err := repo.ListItems(ctx)
	if err != nil {
		utils.Warn("skipping sample items", map[string]any{"error": err.Error()})
		return
	}
	if len(existing) > 0 {
		return
	}

	now := time.Now().UTC()
	items := []model.Item{
		{Title: "Vintage camera", Description: "Rangefinder in working order", StartingPrice: decimal.NewFromInt(1000)},
		{Title: "Oak writing desk", Description: "Solid oak, minor scratches", StartingPrice: decimal.NewFromInt(2500)},
	}
	for _, item := range items {
		item.ItemID = utils.GenerateID()
		item.SellerID = systemSellerID
		item.CreatedAt = now
		item.EndTime = now.Add(72 * time.Hour)
		if err := repo.CreateItem(ctx, item); err != nil {
			utils.Warn("failed to add sample item", map[string]any{"title": item.Title, "error": err.Error()})
		}
	}
}
