package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/carbon-lens/internal/footprint"
	"github.com/iwvelando/carbon-lens/internal/registry"
	"github.com/iwvelando/carbon-lens/internal/session"
	"github.com/iwvelando/carbon-lens/pkg/constants"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger         *zap.Logger
	registry       *registry.Registry
	sessions       *sessionStore
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// estimation API. The registry must be non-nil; it is the process-wide
// read-only factor table.
func NewHandler(logger *zap.Logger, reg *registry.Registry, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		registry:       reg,
		sessions:       newSessionStore(defaultSessionTTL),
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
	}

	mux := http.NewServeMux()

	// Baseline calculation ("calculate" action)
	mux.HandleFunc("/api/estimate", h.handleEstimate)

	// Scenario projection ("apply scenario" action)
	mux.HandleFunc("/api/scenario", h.handleScenario)

	// Read-only views of the session's result cache
	mux.HandleFunc("/api/session", h.handleSession)

	// Region identifiers for the UI selector
	mux.HandleFunc("/api/regions", h.handleRegions)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type estimateResponse struct {
	Region     string              `json:"region"`
	Baseline   footprint.Footprint `json:"baseline"`
	PerCapitaT float64             `json:"perCapitaT"`
}

type scenarioResponse struct {
	Baseline   footprint.Footprint  `json:"baseline"`
	Projection footprint.Projection `json:"projection"`
}

type sessionResponse struct {
	Baseline *baselineView         `json:"baseline,omitempty"`
	Scenario *footprint.Projection `json:"scenario,omitempty"`
}

type baselineView struct {
	Input     footprint.HabitInput `json:"input"`
	Footprint footprint.Footprint  `json:"footprint"`
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	op := "server.handleEstimate"
	cache := h.sessionCache(w, r)

	var input footprint.HabitInput
	if !h.decodeJSON(w, r, &input, op) {
		return
	}
	if input.Region == "" {
		input.Region = constants.DefaultRegion
	}

	factors, err := h.registry.Lookup(input.Region)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	baseline, err := footprint.Estimate(input, factors)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	// The "calculate" action: replaces the session baseline and clears any
	// stale scenario.
	cache.RecordBaseline(input, baseline)

	h.logger.Info("baseline computed",
		zap.String("op", op),
		zap.String("region", input.Region),
		zap.Float64("totalT", baseline.TotalT),
	)

	h.writeJSON(w, http.StatusOK, estimateResponse{
		Region:     input.Region,
		Baseline:   baseline,
		PerCapitaT: constants.IndiaPerCapitaTonnes,
	})
}

func (h *handler) handleScenario(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	op := "server.handleScenario"
	cache := h.sessionCache(w, r)

	var reduction footprint.Reduction
	if !h.decodeJSON(w, r, &reduction, op) {
		return
	}

	baseline, ok := cache.Baseline()
	if !ok {
		h.respondError(w, http.StatusConflict, "no baseline recorded; calculate a baseline first", op)
		return
	}

	factors, err := h.registry.Lookup(baseline.Input.Region)
	if err != nil {
		// The registry is immutable, so a recorded baseline's region cannot
		// disappear; treat this as an internal inconsistency.
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	projection, err := footprint.Project(baseline.Footprint, baseline.Input, reduction, factors)
	if err != nil {
		switch {
		case errors.Is(err, footprint.ErrDivisionUndefined):
			h.respondError(w, http.StatusUnprocessableEntity, err.Error(), op)
		case errors.Is(err, footprint.ErrInvalidInput):
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
		default:
			h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		}
		return
	}

	if err := cache.RecordScenario(projection); err != nil {
		h.respondError(w, http.StatusConflict, err.Error(), op)
		return
	}

	h.logger.Info("scenario projected",
		zap.String("op", op),
		zap.Float64("projectedTotalT", projection.Projected.TotalT),
		zap.Float64("percentSavings", projection.PercentSavings),
	)

	h.writeJSON(w, http.StatusOK, scenarioResponse{
		Baseline:   baseline.Footprint,
		Projection: projection,
	})
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cache := h.sessionCache(w, r)

	var response sessionResponse
	if baseline, ok := cache.Baseline(); ok {
		response.Baseline = &baselineView{Input: baseline.Input, Footprint: baseline.Footprint}
	}
	if scenario, ok := cache.Scenario(); ok {
		projection := scenario
		response.Scenario = &projection
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]string{
		"regions": h.registry.Regions(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// sessionCache resolves the caller's result cache from the session cookie,
// minting a new session when the cookie is absent or malformed.
func (h *handler) sessionCache(w http.ResponseWriter, r *http.Request) *session.Cache {
	id := ""
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			id = cookie.Value
		}
	}

	if id == "" {
		id = newSessionID()
		http.SetCookie(w, &http.Cookie{
			Name:     constants.SessionCookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return h.sessions.get(id)
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
