package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fascani/amabot/internal/api"
	"github.com/fascani/amabot/internal/service"
)

type AnswerService interface {
	Answer(ctx context.Context, query string) (*service.AnswerResult, error)
}

type AskHandler struct {
	svc AnswerService
}

func NewAskHandler(svc AnswerService) *AskHandler {
	return &AskHandler{svc: svc}
}

type AskRequest struct {
	Query string `json:"query"`
	// IncludePrompt returns the assembled prompt alongside the answer,
	// for inspecting which entries made the token budget.
	IncludePrompt bool `json:"include_prompt,omitempty"`
}

type AskResponse struct {
	Answer string `json:"answer"`
	Prompt string `json:"prompt,omitempty"`
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.svc.Answer(r.Context(), req.Query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := AskResponse{Answer: result.Answer}
	if req.IncludePrompt {
		resp.Prompt = result.Prompt
	}
	api.Success(w, http.StatusOK, resp)
}
