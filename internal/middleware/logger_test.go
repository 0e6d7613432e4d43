package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := zerolog.New(&buf)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.Use(RequestLogger(logger))
	server.GET("/ping", func(gctx *gin.Context) {
		zerolog.Ctx(gctx.Request.Context()).Info().Msg("inside")
		gctx.Status(http.StatusNoContent)
	})
	server.GET("/panic", func(gctx *gin.Context) {
		panic("boom")
	})

	t.Run("GeneratesRequestID", func(t *testing.T) {
		buf.Reset()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)

		server.ServeHTTP(recorder, request)

		requestID := recorder.Header().Get(RequestIDHeader)
		if requestID == "" {
			t.Fatalf("%s response header is empty", RequestIDHeader)
		}

		if got := strings.Count(buf.String(), requestID); got != 2 {
			t.Errorf("request id logged %d times, want 2. logs: %s", got, buf.String())
		}
	})

	t.Run("KeepsRequestID", func(t *testing.T) {
		buf.Reset()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set(RequestIDHeader, "req-1")

		server.ServeHTTP(recorder, request)

		if got := recorder.Header().Get(RequestIDHeader); got != "req-1" {
			t.Errorf("%s = %q, want %q", RequestIDHeader, got, "req-1")
		}
	})

	t.Run("RecoversPanic", func(t *testing.T) {
		buf.Reset()

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/panic", nil)

		server.ServeHTTP(recorder, request)

		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("recorder.Code = %v, want %v", recorder.Code, http.StatusInternalServerError)
		}

		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("logs %q do not contain panic message", buf.String())
		}
	})
}
