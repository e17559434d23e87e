package otp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/modules/otp/service"
)

func newRouter(relay *service.Relay) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(relay).Register(r)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/otp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitOTP(t *testing.T) {
	relay := service.NewRelay()
	r := newRouter(relay)

	w := post(r, `{"otp":"12345"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OTP received")

	w = post(r, `{"otp":"99999"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	code, err := relay.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12345", code)
}

func TestSubmitOTP_BadRequest(t *testing.T) {
	r := newRouter(service.NewRelay())

	for _, body := range []string{`{}`, `{"otp":""}`, `{"otp":"   "}`, `not json`} {
		w := post(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "OTP is required", body)
	}
}
