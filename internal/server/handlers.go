package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kyori/internal/models"
)

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EvalDir == "" {
		s.respondError(w, http.StatusBadRequest, "eval_dir is required")
		return
	}
	if info, err := os.Stat(req.EvalDir); err != nil || !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "eval_dir is not a readable directory")
		return
	}
	s.logger.Debug("score request", zap.String("eval_dir", req.EvalDir))

	start := time.Now()
	waveforms, err := s.loader.LoadDirectory(req.EvalDir, s.extensions)
	if err != nil {
		s.logger.Error("evaluation set load failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result, err := s.scorer.Score(r.Context(), waveforms)
	if err != nil {
		s.logger.Error("scoring failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, &models.ScoreResponse{
		ID:        uuid.New().String(),
		FAD:       result.FAD,
		Empty:     result.Empty,
		EvalItems: result.EvalItems,
		EvalRows:  result.EvalRows,
		QueryTime: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleBackground(w http.ResponseWriter, r *http.Request) {
	g, ok, err := s.scorer.BackgroundStats(r.Context())
	if err != nil {
		s.logger.Error("background statistics failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := &models.BackgroundResponse{CacheKey: s.scorer.CacheKey(), Empty: !ok}
	if ok {
		resp.Dimensions = g.Dims()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
