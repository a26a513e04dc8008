package langflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

func flowServer(t *testing.T, handler func(t *testing.T, w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(t, w, r)
	}))
}

func textResponse(kind, text string) string {
	return fmt.Sprintf(`{"outputs":[{"outputs":[{"results":{%q:{"data":{"text":%q}}}}]}]}`, kind, text)
}

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:   baseURL,
		FlowAppID: "app-1",
		OrgID:     "org-1",
		Token:     "test-token",
		AskFlow:   "ask-flow",
		MacroFlow: "macro-flow",
	})
}

func TestAsk(t *testing.T) {
	srv := flowServer(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lf/app-1/api/v1/run/ask-flow", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "org-1", r.Header.Get("X-DataStax-Current-Org"))

		var req runRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text", req.OutputType)
		assert.Equal(t, "how much protein?", req.Tweaks[askQuestionInput].InputValue)
		assert.Equal(t, "age: 30", req.Tweaks[askProfileInput].InputValue)

		fmt.Fprint(w, textResponse("text", "about 140g per day"))
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	answer, err := c.Ask(context.Background(), "age: 30", "how much protein?")
	require.NoError(t, err)
	assert.Equal(t, "about 140g per day", answer)
}

func TestAskNotConfigured(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://localhost"})
	_, err := c.Ask(context.Background(), "profile", "question")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestAskUpstreamError(t *testing.T) {
	srv := flowServer(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Ask(context.Background(), "p", "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestAskEmptyOutputs(t *testing.T) {
	srv := flowServer(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"outputs":[]}`)
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Ask(context.Background(), "p", "q")
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestMacros(t *testing.T) {
	srv := flowServer(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lf/app-1/api/v1/run/macro-flow", r.URL.Path)

		var req runRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "chat", req.OutputType)
		assert.NotEmpty(t, req.InputValue)

		reply := `Here you go: {"calories": 2400, "protein": 160, "fat": 70, "carbs": 250} enjoy!`
		fmt.Fprint(w, textResponse("message", reply))
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	macros, err := c.Macros(context.Background(), "goal: muscle gain")
	require.NoError(t, err)
	assert.Equal(t, entity.Nutrition{Calories: 2400, Protein: 160, Fat: 70, Carbs: 250}, macros)
}

func TestMacrosUnparseableFallsBack(t *testing.T) {
	srv := flowServer(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse("message", "sorry, I can only answer fitness questions"))
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	macros, err := c.Macros(context.Background(), "goal: muscle gain")
	require.NoError(t, err)
	assert.Equal(t, entity.Nutrition{Calories: 2000, Protein: 140, Fat: 60, Carbs: 200}, macros)
}

func TestMacrosFlowError(t *testing.T) {
	srv := flowServer(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"flow not found"}`)
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Macros(context.Background(), "input")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow not found")
}
