package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fascani/amabot/internal/api"
)

type RefreshService interface {
	RefreshAll(ctx context.Context) (int, error)
	RefreshMissing(ctx context.Context) (int, error)
}

type RefreshHandler struct {
	svc RefreshService
}

func NewRefreshHandler(svc RefreshService) *RefreshHandler {
	return &RefreshHandler{svc: svc}
}

type RefreshRequest struct {
	// All recomputes every entry instead of only those missing an
	// embedding or token count.
	All bool `json:"all,omitempty"`
}

type RefreshResponse struct {
	Refreshed int `json:"refreshed"`
}

func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		n   int
		err error
	)
	if req.All {
		n, err = h.svc.RefreshAll(r.Context())
	} else {
		n, err = h.svc.RefreshMissing(r.Context())
	}
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, RefreshResponse{Refreshed: n})
}
