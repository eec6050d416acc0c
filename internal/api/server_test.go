package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/engine"
)

func newTestServer() (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	s := NewServer(engine.NewDetached())
	return s, s.Router()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestHealth(t *testing.T) {
	_, r := newTestServer()
	w, body := doJSON(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "murmur", body["service"])
}

func TestPlayStopRoundTrip(t *testing.T) {
	s, r := newTestServer()

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/play",
		`{"scale":"minor","baseFrequency":220,"tempo":80,"complexity":0.5,"mood":"melancholic","identifier":"perf-42"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["playing"])
	assert.Equal(t, "perf-42", body["identifier"])

	w, body = doJSON(t, r, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["playing"])
	assert.Equal(t, "perf-42", body["identifier"])

	w, body = doJSON(t, r, http.MethodPost, "/api/v1/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["playing"])
	assert.False(t, s.eng.Playing())

	// Stop with nothing playing stays a safe no-op.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/stop", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlayMintsIdentifier(t *testing.T) {
	_, r := newTestServer()
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/play",
		`{"scale":"pentatonic","baseFrequency":330,"tempo":100,"complexity":0.3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["identifier"], "missing identifier gets minted")
}

func TestPlayValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"scale":`},
		{"missing tempo", `{"scale":"minor","baseFrequency":220,"complexity":0.5}`},
		{"zero tempo", `{"scale":"minor","baseFrequency":220,"tempo":0,"complexity":0.5}`},
		{"negative frequency", `{"scale":"minor","baseFrequency":-1,"tempo":80,"complexity":0.5}`},
		{"complexity above one", `{"scale":"minor","baseFrequency":220,"tempo":80,"complexity":1.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := newTestServer()
			w, _ := doJSON(t, r, http.MethodPost, "/api/v1/play", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// Gin dispatches each request on its own goroutine, so play and status can
// overlap; run under the race detector this covers the shared
// last-request fields.
func TestConcurrentPlayAndStatus(t *testing.T) {
	_, r := newTestServer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		id := i
		go func() {
			defer wg.Done()
			body := `{"scale":"minor","baseFrequency":220,"tempo":80,"complexity":0.5,"identifier":"perf-` +
				string(rune('0'+id)) + `"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/play", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(httptest.NewRecorder(), req)
		}()
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
			r.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["playing"])
	assert.NotEmpty(t, body["identifier"])
}

func TestResume(t *testing.T) {
	_, r := newTestServer()
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/resume", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["resumed"])
}

func TestUnknownScaleAccepted(t *testing.T) {
	// Unknown scale names are not rejected; the engine falls back to
	// pentatonic internally.
	_, r := newTestServer()
	w, body := doJSON(t, r, http.MethodPost, "/api/v1/play",
		`{"scale":"hyperdorian","baseFrequency":220,"tempo":90,"complexity":0.5,"identifier":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["playing"])
}
