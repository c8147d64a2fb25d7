package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fascani/amabot/internal/domain"
	"github.com/fascani/amabot/internal/service"
)

type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) Answer(ctx context.Context, query string) (*service.AnswerResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnswerResult), args.Error(1)
}

func TestAskHandler_Ask_Success(t *testing.T) {
	mockSvc := new(MockAnswerService)
	handler := NewAskHandler(mockSvc)

	mockSvc.On("Answer", mock.Anything, "Where do you work?").Return(&service.AnswerResult{
		Answer: "I work as a software engineer.",
		Prompt: "assembled prompt",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query":"Where do you work?"}`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "I work as a software engineer.", data["answer"])
	_, hasPrompt := data["prompt"]
	assert.False(t, hasPrompt)
	mockSvc.AssertExpectations(t)
}

func TestAskHandler_Ask_IncludePrompt(t *testing.T) {
	mockSvc := new(MockAnswerService)
	handler := NewAskHandler(mockSvc)

	mockSvc.On("Answer", mock.Anything, "Where do you work?").Return(&service.AnswerResult{
		Answer: "I work as a software engineer.",
		Prompt: "assembled prompt",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"query":"Where do you work?","include_prompt":true}`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "assembled prompt", data["prompt"])
}

func TestAskHandler_Ask_EmptyQuery(t *testing.T) {
	mockSvc := new(MockAnswerService)
	handler := NewAskHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query":"   "}`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything)
}

func TestAskHandler_Ask_InvalidBody(t *testing.T) {
	mockSvc := new(MockAnswerService)
	handler := NewAskHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskHandler_Ask_ServiceError(t *testing.T) {
	mockSvc := new(MockAnswerService)
	handler := NewAskHandler(mockSvc)

	mockSvc.On("Answer", mock.Anything, "Where do you work?").
		Return(nil, domain.NewServiceError("completion request failed", errors.New("timeout")))

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query":"Where do you work?"}`))
	w := httptest.NewRecorder()

	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
