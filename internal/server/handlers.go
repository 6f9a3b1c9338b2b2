package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-pulse/internal/insight"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/internal/version"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

type healthResponse struct {
	Status  string              `json:"status"`
	Version string              `json:"version"`
	Mode    types.IngestionMode `json:"mode"`
	Loading bool                `json:"loading"`
}

type marketsResponse struct {
	Mode     types.IngestionMode    `json:"mode"`
	Loading  bool                   `json:"loading"`
	Selected types.AssetID          `json:"selected"`
	Markets  []types.MarketSnapshot `json:"markets"`
}

type selectionRequest struct {
	Asset string `json:"asset"`
}

type analyzeErrorResponse struct {
	Error       string `json:"error"`
	RawResponse string `json:"rawResponse,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.GetVersion(),
		Mode:    s.store.Mode(),
		Loading: s.store.IsLoading(),
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, _ *http.Request) {
	all := s.store.All()

	markets := make([]types.MarketSnapshot, 0, len(all))
	for _, asset := range types.TrackedAssets() {
		if snapshot, ok := all[asset]; ok {
			markets = append(markets, snapshot)
		}
	}

	writeJSON(w, http.StatusOK, marketsResponse{
		Mode:     s.store.Mode(),
		Loading:  s.store.IsLoading(),
		Selected: s.store.Selected(),
		Markets:  markets,
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	asset, err := types.ParseAsset(mux.Vars(r)["asset"])
	if err != nil {
		writeError(w, http.StatusNotFound, errorMessage(err))

		return
	}

	snapshot, err := s.store.Get(asset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorMessage(err))

		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	asset, err := types.ParseAsset(req.Asset)
	if err != nil {
		writeError(w, http.StatusNotFound, errorMessage(err))

		return
	}

	if err := s.store.Select(r.Context(), asset); err != nil {
		writeError(w, http.StatusServiceUnavailable, errorMessage(err))

		return
	}

	writeJSON(w, http.StatusOK, map[string]types.AssetID{"selected": asset})
}

// handleInsight answers 200 for every tracked asset; model failures come back as placeholder results.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	asset, err := types.ParseAsset(mux.Vars(r)["asset"])
	if err != nil {
		writeError(w, http.StatusNotFound, errorMessage(err))

		return
	}

	result, err := s.insights.Analyze(r.Context(), asset)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errorMessage(err))

		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAnalyze takes a snapshot in the body and reports model failures distinctly.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var snapshot types.MarketSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")

		return
	}

	if snapshot.Asset == "" {
		writeError(w, http.StatusBadRequest, "currency is required")

		return
	}

	if !snapshot.Asset.Valid() {
		writeError(w, http.StatusBadRequest, "unknown currency: "+string(snapshot.Asset))

		return
	}

	result, err := s.insights.AnalyzeStrict(r.Context(), snapshot)
	if err == nil {
		writeJSON(w, http.StatusOK, result)

		return
	}

	var decodeErr *insight.DecodeError

	switch {
	case errors.As(err, &decodeErr):
		writeJSON(w, http.StatusInternalServerError, analyzeErrorResponse{
			Error:       "Failed to parse AI response.",
			RawResponse: decodeErr.Raw,
		})
	case errors.HasCode(err, errors.ErrCodeModelNotConfigured):
		writeError(w, http.StatusInternalServerError, errorMessage(err))
	case errors.HasCode(err, errors.ErrCodeModelInvocationFailed):
		writeError(w, http.StatusBadGateway, errorMessage(err))
	default:
		s.logger.Error("Analyze route error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
