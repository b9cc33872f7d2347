package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otp-verify-api/internal/application/otp"
	"github.com/otp-verify-api/internal/application/session"
	"github.com/otp-verify-api/internal/config"
	"github.com/otp-verify-api/internal/transport/http/handler"
	appmiddleware "github.com/otp-verify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"success":false,"error":"Method not allowed"}`))
	})

	// 5 requests/second, burst of 10 — applied to the public OTP endpoints
	// on top of the per-phone ledger limit.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo: deps.UserRepo,
		Signer:   deps.JWTProvider,
	})
	otpSvc := otp.NewService(otp.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		AttemptRepo:      deps.AttemptRepo,
		Provider:         deps.Provider,
		Sessions:         sessionSvc,
		OTPTTL:           cfg.OTPTTL,
		MaxAttempts:      cfg.OTPMaxAttempts,
		SendRateWindow:   cfg.SendRateWindow,
		SendRateMax:      cfg.SendRateMax,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)

	// Public routes
	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/health-check/{action}", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/send-otp", otpH.Send)
	r.With(sensitiveRL.Limit).Post("/verify-otp", otpH.Verify)
	r.Post("/refresh-token", sessionH.Refresh)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))
		r.Get("/session", sessionH.GetCurrent)
	})

	return r
}
