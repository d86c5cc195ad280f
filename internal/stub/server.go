// Package stub is an in-memory stand-in for the zargar backend so the TUI
// can be run and demoed without production access. It serves the same HTTP
// contract the api package consumes: bearer-token auth, JSON bodies, and
// structured {"detail": ...} errors.
package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/smoradi/zargar/internal/api"
	"github.com/smoradi/zargar/internal/invoice"
)

// statusError carries the HTTP status and user-facing detail of a rejected
// request.
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string { return e.detail }

func errf(status int, format string, args ...any) error {
	return &statusError{status: status, detail: fmt.Sprintf(format, args...)}
}

// Server hosts the stub API.
type Server struct {
	store    *Store
	username string
	password string
	secret   []byte
	tokenTTL time.Duration
}

// Options configures the stub server.
type Options struct {
	Username  string
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
}

func NewServer(store *Store, opts Options) *Server {
	return &Server{
		store:    store,
		username: opts.Username,
		password: opts.Password,
		secret:   []byte(opts.JWTSecret),
		tokenTTL: opts.TokenTTL,
	}
}

// Router builds the HTTP handler. Browser clients of the production backend
// rely on permissive CORS during development, so the stub mirrors that.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/customers", s.listCustomers)
			r.Post("/customers", s.createCustomer)
			r.Put("/customers/{id}", s.updateCustomer)

			r.Get("/inventory", s.listInventory)

			r.Post("/invoices/calculate", s.calculateInvoice)
			r.Post("/invoices", s.createInvoice)
			r.Get("/invoices", s.listInvoices)

			r.Get("/dashboard/summary", s.dashboardSummary)

			r.Get("/sms/campaigns", s.listCampaigns)
			r.Post("/sms/campaigns", s.createCampaign)
		})
	})

	return router
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errf(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if req.Username != s.username || req.Password != s.password {
		writeError(w, errf(http.StatusUnauthorized, "Invalid credentials"))
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		writeError(w, fmt.Errorf("signing token: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, errf(http.StatusUnauthorized, "Missing bearer token"))
			return
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, errf(http.StatusUnauthorized, "Invalid token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Customers())
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var params api.CustomerParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, errf(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if params.Name == "" || params.Phone == "" {
		writeError(w, errf(http.StatusBadRequest, "Name and phone are required"))
		return
	}

	customer, err := s.store.CreateCustomer(params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var params api.CustomerParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, errf(http.StatusBadRequest, "Invalid request body"))
		return
	}

	customer, err := s.store.UpdateCustomer(chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Inventory())
}

func (s *Server) calculateInvoice(w http.ResponseWriter, r *http.Request) {
	var d invoice.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, errf(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if !d.Calculable() {
		writeError(w, errf(http.StatusBadRequest, "Draft is not calculable"))
		return
	}

	writeJSON(w, http.StatusOK, CalculateDraft(d))
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var d invoice.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, errf(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if errs := d.Validate(); len(errs) > 0 {
		writeError(w, errf(http.StatusBadRequest, "%s", errs[0].Error()))
		return
	}

	created, err := s.store.CreateInvoice(d)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Invoices())
}

func (s *Server) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summary())
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Campaigns())
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var params api.CampaignParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, errf(http.StatusBadRequest, "Invalid request body"))
		return
	}

	campaign, err := s.store.CreateCampaign(params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := ""

	var se *statusError
	if errors.As(err, &se) {
		status = se.status
		detail = se.detail
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
