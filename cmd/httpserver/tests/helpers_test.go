//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/integrationtest"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/internal/test"
	"github.com/go-petr/microlend/pkg/web"
	"github.com/stretchr/testify/require"
)

type client struct {
	t       *testing.T
	token   string
	refresh string
}

type signUpData struct {
	User    domain.UserWihtoutPassword `json:"user"`
	Account domain.Account             `json:"account"`
}

func flush(t *testing.T) {
	integrationtest.Flush(t, server.DB)
	t.Cleanup(func() { integrationtest.Flush(t, server.DB) })
}

func signUp(t *testing.T, username string) (*client, signUpData) {
	t.Helper()

	recorder := test.Serve(t, server, http.MethodPost, "/users", gin.H{
		"first_name": "First",
		"last_name":  "Last",
		"username":   username,
		"password":   "secret123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var data signUpData

	res := test.DecodeResponse(t, recorder, &data)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	return &client{t: t, token: res.AccessToken, refresh: res.RefreshToken}, data
}

func (c *client) do(method, url string, body any, data any) (int, web.Response) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(c.t, err)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AuthHeaderKey, middleware.AuthTypeBearer+" "+c.token)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder.Code, test.DecodeResponse(c.t, recorder, data)
}

func itoa[T ~int32 | ~int64](id T) string {
	return strconv.FormatInt(int64(id), 10)
}
