package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billable/internal/auth"
	authStore "github.com/MrJamesThe3rd/billable/internal/auth/store"
	"github.com/MrJamesThe3rd/billable/internal/client"
	clientStore "github.com/MrJamesThe3rd/billable/internal/client/store"
	"github.com/MrJamesThe3rd/billable/internal/config"
	"github.com/MrJamesThe3rd/billable/internal/database"
	billableHttp "github.com/MrJamesThe3rd/billable/internal/http"
	clientHandler "github.com/MrJamesThe3rd/billable/internal/http/client"
	invoiceHandler "github.com/MrJamesThe3rd/billable/internal/http/invoice"
	paymentHandler "github.com/MrJamesThe3rd/billable/internal/http/payment"
	userHandler "github.com/MrJamesThe3rd/billable/internal/http/user"
	"github.com/MrJamesThe3rd/billable/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/billable/internal/invoice/store"
	"github.com/MrJamesThe3rd/billable/internal/logging"
	"github.com/MrJamesThe3rd/billable/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/billable/internal/payment/store"
)

func main() {
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokenCfg := auth.TokenConfig{
		Key:      []byte(cfg.JWT.Key),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	}

	var (
		clientSt  = clientStore.New(db)
		invoiceSt = invoiceStore.New(db)

		authService    = auth.NewService(authStore.New(db), tokenCfg)
		clientService  = client.NewService(clientSt)
		invoiceService = invoice.NewService(invoiceSt, clientSt)
		paymentService = payment.NewService(paymentStore.New(db), invoiceSt)
	)

	var (
		userH    = userHandler.NewHandler(authService)
		clientH  = clientHandler.NewHandler(clientService)
		invoiceH = invoiceHandler.NewHandler(invoiceService)
		paymentH = paymentHandler.NewHandler(paymentService)
	)

	router := billableHttp.New(authService, userH, clientH, invoiceH, paymentH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
