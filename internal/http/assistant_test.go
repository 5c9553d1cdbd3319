package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nur/internal/assistant"
)

func TestAssistantController_Ask(t *testing.T) {
	fake := &fakeAssistant{answer: "Wudu is the ritual washing performed before prayer."}
	router, _ := setupTestRouter(t, Services{Assistant: fake})

	w := serve(router, http.MethodPost, "/api/v1/assistant/ask", `{"question":"What is wudu?"}`, OwnerHeader, "yusuf")

	require.Equal(t, http.StatusOK, w.Code)
	var resp AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, fake.answer, resp.Answer)
	assert.Equal(t, "fake", resp.Provider)
	assert.Equal(t, "yusuf", fake.owner)
}

func TestAssistantController_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		body           string
		wantStatus     int
		wantCode       string
		wantRetryAfter string
	}{
		{"rate limited", &assistant.RateLimitError{RetryAfter: 2500 * time.Millisecond}, `{"question":"q"}`, http.StatusTooManyRequests, "rate_limited", "3"},
		{"empty question", assistant.ErrEmptyQuestion, `{"question":"  "}`, http.StatusBadRequest, "empty_question", ""},
		{"too long", assistant.ErrTooLong, `{"question":"q"}`, http.StatusBadRequest, "question_too_long", ""},
		{"not configured", assistant.ErrNotConfigured, `{"question":"q"}`, http.StatusServiceUnavailable, "assistant_unavailable", ""},
		{"empty answer", assistant.ErrEmptyAnswer, `{"question":"q"}`, http.StatusBadGateway, "assistant_failed", ""},
		{"provider error", errors.New("anthropic: 529 overloaded"), `{"question":"q"}`, http.StatusBadGateway, "assistant_failed", ""},
		{"malformed body", nil, `{"question":`, http.StatusBadRequest, "bad_request", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t, Services{Assistant: &fakeAssistant{err: tt.err}})

			w := serve(router, http.MethodPost, "/api/v1/assistant/ask", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.wantRetryAfter, w.Header().Get("Retry-After"))
		})
	}
}

func TestAssistantController_RateLimitNoticeIsLocalised(t *testing.T) {
	router, _ := setupTestRouter(t, Services{Assistant: &fakeAssistant{err: &assistant.RateLimitError{RetryAfter: 40 * time.Second}}})

	w := serve(router, http.MethodPost, "/api/v1/assistant/ask", `{"question":"q"}`)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Please wait 40 seconds.")
}
