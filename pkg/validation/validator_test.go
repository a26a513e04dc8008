package validation

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	Init()
}

type sampleForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Age      int    `json:"age" binding:"gte=1"`
}

func bindSample(t *testing.T, payload string) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	var form sampleForm
	return c.ShouldBindJSON(&form)
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	err := bindSample(t, `{"email":"not-an-email","password":"abc","age":30}`)
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.NotContains(t, details, "age")
}

func TestToDetailsInvalidJSON(t *testing.T) {
	err := bindSample(t, `{"email":`)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
