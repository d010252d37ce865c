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

	"github.com/sells-group/roster-cli/internal/ingest"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/store"
)

var servePort int

// maxBodyBytes bounds request bodies; a roster grid is a few hundred rows.
const maxBodyBytes = 8 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the roster HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: newRouter(serverDeps{
				Analyzer:       newAnalyzer(cfg, newRegistry(cfg, st)),
				Store:          st,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

type serverDeps struct {
	Analyzer       *ingest.Analyzer
	Store          store.Store
	AllowedOrigins []string
}

type analyzeRequest struct {
	Rows  [][]any `json:"rows"`
	UseAI bool    `json:"use_ai"`
}

type confirmRequest struct {
	Analysis      *model.AnalysisResult `json:"analysis"`
	ClearExisting bool                  `json:"clear_existing"`
}

type rosterResponse struct {
	EventID     string                   `json:"event_id"`
	TableGroups []model.TableGroupRecord `json:"table_groups"`
	Assignments []model.AssignmentRecord `json:"assignments"`
}

func newRouter(d serverDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/events/{eventID}/roster", func(r chi.Router) {
		r.Get("/", d.getRoster)
		r.Post("/analyze", d.analyzeRoster)
		r.Post("/confirm", d.confirmRoster)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Get("/", d.listStaff)
		r.Get("/{staffID}", d.getStaff)
	})

	return r
}

func (d serverDeps) analyzeRoster(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s := sheet.FromGrid(req.Rows)
	if s.Empty() {
		respondError(w, http.StatusBadRequest, "rows must contain at least one non-empty row")
		return
	}

	res, err := d.Analyzer.Analyze(r.Context(), eventID, s, req.UseAI)
	if err != nil {
		zap.L().Error("analyze roster failed", zap.String("event_id", eventID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (d serverDeps) confirmRoster(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req confirmRequest
	if err := decodeBody(w, r, &req); err != nil || req.Analysis == nil {
		respondError(w, http.StatusBadRequest, "analysis is required")
		return
	}

	report, err := ingest.Confirm(r.Context(), d.Store, eventID, req.Analysis, ingest.ConfirmOptions{ClearExisting: req.ClearExisting})
	if err != nil {
		zap.L().Error("confirm roster failed", zap.String("event_id", eventID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "confirm failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (d serverDeps) getRoster(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	groups, err := d.Store.ListTableGroups(r.Context(), eventID)
	if err != nil {
		zap.L().Error("list table groups failed", zap.String("event_id", eventID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "load roster failed")
		return
	}
	assignments, err := d.Store.ListAssignments(r.Context(), eventID)
	if err != nil {
		zap.L().Error("list assignments failed", zap.String("event_id", eventID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "load roster failed")
		return
	}
	if groups == nil {
		groups = []model.TableGroupRecord{}
	}
	if assignments == nil {
		assignments = []model.AssignmentRecord{}
	}
	respondJSON(w, http.StatusOK, rosterResponse{EventID: eventID, TableGroups: groups, Assignments: assignments})
}

func (d serverDeps) listStaff(w http.ResponseWriter, r *http.Request) {
	active, err := d.Store.ActiveStaff(r.Context())
	if err != nil {
		zap.L().Error("list staff failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "list staff failed")
		return
	}
	if active == nil {
		active = []model.Staff{}
	}
	respondJSON(w, http.StatusOK, active)
}

func (d serverDeps) getStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "staffID")
	s, err := d.Store.GetStaff(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "staff not found")
		return
	case err != nil:
		zap.L().Error("get staff failed", zap.String("staff_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "get staff failed")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
