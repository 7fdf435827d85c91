/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing (X-Request-Id)
  2. Logger:     Structured request logging via zerolog
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the front office UI

ROUTE GROUPS:
  /api/health           Liveness and database check
  /api/employees/*      Employees, attendance, periods, receipts
  /api/shifts/*         Stateless shift classification
  /api/parameters/*     Exchange rate and statutory values
  /api/payroll/*        Previews, runs, exports

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bradycnk/Nominaft/logger"
)

// NewRouter creates a new router with all routes configured.
// An empty allowedOrigins list allows any origin.
func NewRouter(h *Handler, log *logger.Logger, allowedOrigins []string) *chi.Mux {
	if log == nil {
		log = logger.Nop()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Put("/", h.UpdateEmployee)

				r.Get("/attendance", h.ListAttendance)
				r.Post("/attendance/check-in", h.CheckIn)
				r.Post("/attendance/check-out", h.CheckOut)
				r.Post("/attendance/status", h.MarkStatus)

				r.Get("/periods/{year}/{month}/{half}", h.PeriodSummary)
				r.Post("/periods/{year}/{month}/{half}/close", h.ClosePeriod)
				r.Get("/periods/{year}/{month}/{half}/receipt", h.Receipt)
			})
		})

		r.Post("/shifts/classify", h.ClassifyShift)

		// Parameter routes
		r.Route("/parameters", func(r chi.Router) {
			r.Get("/", h.GetParameters)
			r.Put("/", h.UpdateParameters)
			r.Post("/refresh-rate", h.RefreshRate)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)
			r.Post("/runs/{id}/paid", h.MarkRunPaid)

			r.Route("/{year}/{month}/{half}", func(r chi.Router) {
				r.Get("/preview", h.PreviewPayroll)
				r.Post("/run", h.RunPayroll)
				r.Get("/runs", h.ListRuns)
				r.Get("/export", h.ExportPayroll)
			})
		})
	})

	return r
}

// requestLogger logs one line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
