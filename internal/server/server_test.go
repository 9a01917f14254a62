package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"convertly-go/internal/codec"
	"convertly-go/internal/config"
	"convertly-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Port:           8080,
		Env:            "development",
		Version:        "test",
		UploadMaxSize:  10 * 1024 * 1024,
		MaxRequestSize: 100 * 1024 * 1024,
		MaxFiles:       20,
		ConvertWorkers: 2,
		RequestTimeout: 30 * time.Second,
		CodecBackend:   codec.BackendNative,
		AllowedOrigins: []string{"http://*", "https://*"},
	}

	s, err := NewServer(cfg, codec.NewNative())
	require.NoError(t, err)

	ts := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServerRequiresCodec(t *testing.T) {
	_, err := NewServer(&config.Config{}, nil)
	assert.Error(t, err)
}

func TestStart(t *testing.T) {
	s, err := NewServer(&config.Config{
		Port:           9090,
		RequestTimeout: time.Minute,
		MaxRequestSize: 100 * 1024 * 1024,
	}, codec.NewNative())
	require.NoError(t, err)

	srv, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 7*time.Minute+40*time.Second, srv.ReadTimeout)
	assert.Equal(t, srv.ReadTimeout+2*time.Minute, srv.WriteTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestReadTimeout(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want time.Duration
	}{
		{"Unset", 0, time.Minute},
		{"Small body", 1024, time.Minute},
		{"10MB", 10 * 1024 * 1024, time.Minute + 40*time.Second},
		{"100MB", 100 * 1024 * 1024, time.Minute + 400*time.Second},
		{"1GB", 1024 * 1024 * 1024, time.Minute + 4096*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readTimeout(tt.size))
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body struct {
		Success bool       `json:"success"`
		Message string     `json:"message"`
		Data    HealthData `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, HealthData{Status: "up", Codec: "native", Version: "test"}, body.Data)
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestErrorRoutes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"Unknown path", http.MethodGet, "/nope", http.StatusNotFound, models.CodeNotFound},
		{"GET upload", http.MethodGet, "/api/upload", http.StatusMethodNotAllowed, models.CodeMethodNotAllowed},
		{"POST formats", http.MethodPost, "/api/formats", http.StatusMethodNotAllowed, models.CodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestFormatsRoute(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/formats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.FormatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.SupportedFormats, body.Formats)
	assert.Equal(t, 20, body.MaxFiles)
}

func TestUploadRoute(t *testing.T) {
	ts := newTestServer(t)

	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, img))

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("files", "dot.png")
	require.NoError(t, err)
	_, err = fw.Write(src.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("targetFormat", "jpg"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/upload", mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Files, 1)
	assert.Equal(t, "dot.jpg", out.Files[0].Name)
	assert.Equal(t, "image/jpeg", out.Files[0].Type)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/upload", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
