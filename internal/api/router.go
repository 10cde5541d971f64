package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medicore/appointment-scheduling/internal/schedule"
)

type RouterConfig struct {
	Service *schedule.Service
	PgPool  *pgxpool.Pool // nil in memory mode
	Redis   *redis.Client // nil when the in-process locker is used
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/appointments", createAppointmentHandler(cfg.Service))
	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Put("/appointments/{id}", upsertAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/confirm", transitionHandler(cfg.Service, schedule.ActionConfirm))
	r.Post("/appointments/{id}/start", transitionHandler(cfg.Service, schedule.ActionStart))
	r.Post("/appointments/{id}/complete", transitionHandler(cfg.Service, schedule.ActionComplete))
	r.Post("/appointments/{id}/cancel", transitionHandler(cfg.Service, schedule.ActionCancel))

	r.Get("/slots", freeSlotsHandler(cfg.Service))

	return r
}
