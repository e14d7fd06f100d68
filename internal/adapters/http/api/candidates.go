package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/pkg/logger"
)

const defaultCandidateLimit = 10

// CandidateDependencies ranks players.
type CandidateDependencies interface {
	Candidates(ctx context.Context, limit int) ([]types.CandidateEntry, error)
}

// CandidateHandler handles GET /candidates requests.
type CandidateHandler struct {
	deps     CandidateDependencies
	maxLimit int
	logger   logger.Logger
}

// NewCandidateHandler creates a new candidate handler.
func NewCandidateHandler(deps CandidateDependencies, maxLimit int, log logger.Logger) *CandidateHandler {
	return &CandidateHandler{deps: deps, maxLimit: maxLimit, logger: log}
}

// HandleGetCandidates handles GET /candidates?limit=N requests. Without a
// limit it returns up to 10 entries, or the configured maximum if lower.
func (h *CandidateHandler) HandleGetCandidates(w http.ResponseWriter, r *http.Request) {
	limit := min(defaultCandidateLimit, h.maxLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %d > %d", ErrLimitExceeded, n, h.maxLimit))
			return
		}
		limit = n
	}

	entries, err := h.deps.Candidates(r.Context(), limit)
	if err != nil {
		respondError(w, r, h.logger, "candidates", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
