package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/pkg/web"
	"github.com/stretchr/testify/require"
)

// WithActor returns a middleware that sets the acting user the way
// middleware.ActorMiddleware does.
func WithActor(actor domain.Actor) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		gctx.Set(middleware.ActorKey, actor)
		gctx.Next()
	}
}

// Serve sends the request with an optional JSON body to the router and
// returns the recorded response.
func Serve(t *testing.T, router http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

// DecodeResponse unmarshals the response envelope. Data is decoded into data
// when it is not nil.
func DecodeResponse(t *testing.T, recorder *httptest.ResponseRecorder, data any) web.Response {
	t.Helper()

	var raw struct {
		web.Response
		Data json.RawMessage `json:"data,omitempty"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))

	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}

	return raw.Response
}
