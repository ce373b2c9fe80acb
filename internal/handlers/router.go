package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/middleware"
	"fintrack/internal/websocket"
)

type Handler struct {
	txRunner  db.TxRunner
	cfg       config.Config
	users     UserStore
	accounts  AccountStore
	tags      TagStore
	budgets   BudgetStore
	goals     GoalStore
	ledger    LedgerService
	recurring RecurringService
	analytics AnalyticsService
	hub       *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, accounts AccountStore, tags TagStore, budgets BudgetStore, goals GoalStore, ledger LedgerService, recurring RecurringService, analytics AnalyticsService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:  txRunner,
		cfg:       cfg,
		users:     users,
		accounts:  accounts,
		tags:      tags,
		budgets:   budgets,
		goals:     goals,
		ledger:    ledger,
		recurring: recurring,
		analytics: analytics,
		hub:       hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/{id}", h.GetAccount)
			r.Put("/{id}", h.UpdateAccount)
			r.Delete("/{id}", h.DeleteAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Put("/{id}", h.UpdateTag)
			r.Delete("/{id}", h.DeleteTag)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", h.ListBudgets)
			r.Post("/", h.UpsertBudget)
			r.Delete("/{id}", h.DeleteBudget)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", h.ListGoals)
			r.Post("/", h.CreateGoal)
			r.Get("/{id}", h.GetGoal)
			r.Put("/{id}", h.UpdateGoal)
			r.Delete("/{id}", h.DeleteGoal)
		})

		r.Route("/recurring-payments", func(r chi.Router) {
			r.Get("/", h.ListRecurringPayments)
			r.Post("/", h.CreateRecurringPayment)
			r.Get("/{id}", h.GetRecurringPayment)
			r.Put("/{id}", h.UpdateRecurringPayment)
			r.Delete("/{id}", h.DeleteRecurringPayment)
			r.Post("/{id}/execute", h.ExecuteRecurringPayment)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", h.AnalyticsSummary)
			r.Get("/trends", h.AnalyticsTrends)
			r.Get("/balance-history", h.BalanceHistory)
			r.Post("/snapshot", h.TakeSnapshot)
		})

		r.Get("/ws/balances", h.WSBalances)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
