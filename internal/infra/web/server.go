package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/config"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/infra/i18n"
	infraRedis "padelpass-backend/internal/infra/redis"
	"padelpass-backend/internal/usecase"
)

// Server wires the REST surface: one handler set over the use cases,
// with JWT auth, per-caller rate limiting on check-in, and localized
// error messages.
type Server struct {
	auth      *AuthManager
	authUC    *usecase.AuthUseCase
	userUC    *usecase.UserUseCase
	subUC     *usecase.SubscriptionUseCase
	planUC    *usecase.PlanUseCase
	clubUC    *usecase.ClubUseCase
	checkinUC *usecase.CheckInUseCase
	clubUsrUC *usecase.ClubUserUseCase

	limiter *infraRedis.RateLimiter
	checkin config.CheckInConfig
	i18n    *i18n.Bundle
	log     *zerolog.Logger
}

func NewServer(
	auth *AuthManager,
	authUC *usecase.AuthUseCase,
	userUC *usecase.UserUseCase,
	subUC *usecase.SubscriptionUseCase,
	planUC *usecase.PlanUseCase,
	clubUC *usecase.ClubUseCase,
	checkinUC *usecase.CheckInUseCase,
	clubUsrUC *usecase.ClubUserUseCase,
	limiter *infraRedis.RateLimiter,
	checkinCfg config.CheckInConfig,
	translator *i18n.Bundle,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "web").Logger()
	return &Server{
		auth:      auth,
		authUC:    authUC,
		userUC:    userUC,
		subUC:     subUC,
		planUC:    planUC,
		clubUC:    clubUC,
		checkinUC: checkinUC,
		clubUsrUC: clubUsrUC,
		limiter:   limiter,
		checkin:   checkinCfg,
		i18n:      translator,
		log:       &webLog,
	}
}

// Routes builds the chi router. Auth endpoints are public; everything
// else requires a valid access token.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Post("/auth/revoke", s.handleRevoke)
			r.With(RequireRole(model.RoleSuperAdmin)).Post("/auth/admins", s.handleCreateAdmin)

			r.Get("/users/search", s.handleUserSearch)
			r.Get("/users/{id}", s.handleUserGet)
			r.Put("/users/{id}", s.handleUserUpdate)
			r.Delete("/users/{id}", s.handleUserDelete)
			r.Get("/users/{id}/checkins", s.handleCheckInsByUser)

			r.Get("/clubs", s.handleClubList)
			r.Post("/clubs", s.handleClubCreate)
			r.Get("/clubs/{id}", s.handleClubGet)
			r.Put("/clubs/{id}", s.handleClubUpdate)
			r.Delete("/clubs/{id}", s.handleClubDelete)
			r.Get("/clubs/{id}/slots", s.handleSlotList)
			r.Post("/clubs/{id}/slots", s.handleSlotCreate)
			r.Put("/slots/{id}", s.handleSlotUpdate)
			r.Delete("/slots/{id}", s.handleSlotDelete)
			r.Get("/clubs/{id}/checkins", s.handleCheckInsByClub)
			r.Get("/clubs/{id}/checkins/today", s.handleCheckInsTodayByClub)

			r.Get("/plans", s.handlePlanList)
			r.Post("/plans", s.handlePlanCreate)
			r.Get("/plans/{id}", s.handlePlanGet)
			r.Put("/plans/{id}", s.handlePlanUpdate)
			r.Delete("/plans/{id}", s.handlePlanDelete)

			r.Get("/subscriptions", s.handleSubscriptionList)
			r.Post("/subscriptions", s.handleSubscriptionCreate)
			r.Get("/subscriptions/current", s.handleSubscriptionCurrent)
			r.Get("/subscriptions/{id}", s.handleSubscriptionGet)
			r.Post("/subscriptions/{id}/extend", s.handleSubscriptionExtend)
			r.Post("/subscriptions/{id}/pause", s.handleSubscriptionPause)
			r.Post("/subscriptions/{id}/resume", s.handleSubscriptionResume)
			r.Post("/subscriptions/{id}/cancel", s.handleSubscriptionCancel)
			r.Delete("/subscriptions/{id}", s.handleSubscriptionDelete)

			r.With(s.rateLimitCheckIn).Post("/checkins", s.handleCheckInCreate)

			r.Get("/club-users", s.handleClubUserList)
			r.Post("/club-users", s.handleClubUserCreate)
			r.Get("/club-users/{id}", s.handleClubUserGet)
			r.Patch("/club-users/{id}", s.handleClubUserSetActive)
			r.Delete("/club-users/{id}", s.handleClubUserDelete)
		})
	})

	return r
}

// rateLimitCheckIn enforces a fixed window per caller on the check-in
// endpoint. A limiter outage fails open; a scan must not bounce because
// Redis is down.
func (s *Server) rateLimitCheckIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if ok && s.limiter != nil {
			key := infraRedis.CallerEndpointKey(caller.UserID, "checkin")
			allowed, err := s.limiter.Allow(r.Context(), key, s.checkin.RateLimit, s.checkin.RateWindow)
			if err != nil {
				s.log.Warn().Err(err).Msg("rate limiter unavailable")
			} else if !allowed {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: s.translate(r, "rate_limited"), Code: "rate_limited"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
