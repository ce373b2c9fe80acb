package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/handlers"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	tags := store.NewTagStore(database)
	budgets := store.NewBudgetStore(database)
	goals := store.NewGoalStore(database)
	recurring := store.NewRecurringStore(database)
	snapshots := store.NewSnapshotStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	engine := services.NewBalanceEngine(accounts)
	ledger := services.NewLedgerService(txRunner, accounts, transactions, tags, engine, hub)
	recurringSvc := services.NewRecurringService(txRunner, recurring, accounts, tags, ledger)
	analytics := services.NewAnalyticsService(accounts, transactions, tags, snapshots)

	handler := handlers.New(txRunner, cfg, users, accounts, tags, budgets, goals, ledger, recurringSvc, analytics, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("fintrack API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
