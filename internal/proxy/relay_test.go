package proxy

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/config"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelay(t *testing.T, upstream http.HandlerFunc) *httptest.Server {
	t.Helper()
	cf := httptest.NewServer(upstream)
	t.Cleanup(cf.Close)

	client := api.NewCodeforcesClient(&config.Config{APIBase: cf.URL + "/api"}, zerolog.Nop())
	mux := http.NewServeMux()
	mux.Handle(Path, NewHandler(client, zerolog.Nop()))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRelayPassesThroughVerbatim(t *testing.T) {
	var gotPath, gotQuery string
	srv := newRelay(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":"FAILED","comment":"handle: User with handle ghost not found"}`)
	})

	resp, err := http.Get(srv.URL + "/api/user.info?handles=ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, "/api/user.info", gotPath)
	assert.Equal(t, "handles=ghost", gotQuery)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `{"status":"FAILED","comment":"handle: User with handle ghost not found"}`, string(body))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestRelayRejectsBadMethodNames(t *testing.T) {
	called := false
	srv := newRelay(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	for _, path := range []string{"/api/", "/api/user.info2", "/api/user/info", "/api/user_info"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
	assert.False(t, called)
}

func TestRelayOnlyGet(t *testing.T) {
	srv := newRelay(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := http.Post(srv.URL+"/api/user.info", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRelayUpstreamDown(t *testing.T) {
	cf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := api.NewCodeforcesClient(&config.Config{APIBase: cf.URL + "/api"}, zerolog.Nop())
	cf.Close()

	srv := httptest.NewServer(NewHandler(client, zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/problemset.problems")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Proxy error", payload["error"])
	assert.NotEmpty(t, payload["details"])
}
