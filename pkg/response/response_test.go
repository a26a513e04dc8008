package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	resp := Success(c, http.StatusCreated, gin.H{"username": "alice"}, "account created", gin.H{"attempts": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "account created", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
}

func TestErrorWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	resp := Error[any](c, http.StatusConflict, "username already exists", map[string]string{"username": "taken"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotNil(t, body["error"])
}

func TestZeroStatusDefaults(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success[any](c, 0, nil, "ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	Error[any](c2, 0, "bad", nil)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
}
