package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/interest"
	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/pipeline"
	"github.com/sells-group/trip-planner/internal/store"
)

var (
	servePort    int
	serveNarrate bool
)

// planRunner is the part of the pipeline the HTTP API drives.
type planRunner interface {
	Run(ctx context.Context, req model.TripRequest, vector model.InterestVector) (*pipeline.Result, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the trip-planning HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		// Concurrent requests share no artifacts directory.
		env, err := initPipeline(ctx, "", serveNarrate)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env.Pipeline, env.Store, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// maxPlanBodyBytes caps the POST /plan request body.
const maxPlanBodyBytes = 1 << 20

type planRequest struct {
	Cities    []string       `json:"cities"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Interests map[string]any `json:"interests"`
}

// buildRouter wires the API routes. st may be nil when run history is disabled.
func buildRouter(runner planRunner, st store.Store, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"categories": model.Categories,
			"tourism":    cfgTourismCategories(),
		})
	})

	r.Post("/plan", func(w http.ResponseWriter, req *http.Request) {
		var body planRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxPlanBodyBytes)).Decode(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tripReq, err := parseRequest("", body.Start, body.End)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		tripReq.Cities = body.Cities

		var vector model.InterestVector
		if body.Interests != nil {
			vector = interest.Clean(body.Interests)
		}

		result, err := runner.Run(req.Context(), tripReq, vector)
		if err != nil {
			zap.L().Error("plan request failed", zap.Error(err))
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		if st == nil {
			writeError(w, http.StatusServiceUnavailable, "run history is disabled")
			return
		}
		id := chi.URLParam(req, "id")
		run, err := st.GetRun(req.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		phases, err := st.ListPhases(req.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, struct {
			*model.Run
			Phases []model.RunPhase `json:"phases"`
		}{run, phases})
	})

	return r
}

func cfgTourismCategories() []string {
	if cfg == nil {
		return model.TourismCategories
	}
	return cfg.Scorer.TourismCategories
}

// statusFor maps input errors to 400 and everything else to 500.
func statusFor(err error) int {
	if model.IsParamError(err) || model.IsSchemaError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveNarrate, "narrate", false, "add the narrated itinerary to plan responses")
	rootCmd.AddCommand(serveCmd)
}
