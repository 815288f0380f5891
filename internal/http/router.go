package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/billable/internal/auth"
	clienthttp "github.com/MrJamesThe3rd/billable/internal/http/client"
	invoicehttp "github.com/MrJamesThe3rd/billable/internal/http/invoice"
	authmw "github.com/MrJamesThe3rd/billable/internal/http/middleware"
	paymenthttp "github.com/MrJamesThe3rd/billable/internal/http/payment"
	userhttp "github.com/MrJamesThe3rd/billable/internal/http/user"
)

func New(
	authSvc *auth.Service,
	usersV1 *userhttp.Handler,
	clientsV1 *clienthttp.Handler,
	invoicesV1 *invoicehttp.Handler,
	paymentsV1 *paymenthttp.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			usersV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(authSvc))

			r.Route("/clients", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				clientsV1.Routes(r)
			})

			// Invoices accept multipart uploads on the import route, so no
			// content-type filter here.
			r.Route("/invoices", invoicesV1.Routes)

			r.Route("/payments", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				paymentsV1.Routes(r)
			})
		})
	})

	return router
}
