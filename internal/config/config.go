package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Config holds server configuration
type Config struct {
	Port           int           // Port to listen on
	Env            string        // Environment (development | production)
	BaseURL        string        // Public base URL, logged on startup
	Version        string        // Build version, set by the binary
	UploadMaxSize  int64         // Maximum size of a single uploaded file in bytes
	MaxRequestSize int64         // Maximum size of a whole upload request in bytes
	MaxFiles       int           // Maximum number of files per request
	ConvertWorkers int           // Conversions running in parallel per request
	MaxEncodes     int           // Codec runs in flight across the process, abandoned ones included
	MaxPixels      int64         // Largest width*height accepted before decoding
	RequestTimeout time.Duration // Deadline for converting one request's files
	CodecBackend   string        // Codec implementation (native | magick)
	AllowedOrigins []string      // CORS origins
}

func (c *Config) Log() {
	log.Info().
		Int("port", c.Port).
		Str("env", c.Env).
		Str("base_url", c.BaseURL).
		Str("upload_max_size", humanize.IBytes(uint64(c.UploadMaxSize))).
		Str("max_request_size", humanize.IBytes(uint64(c.MaxRequestSize))).
		Int("max_files", c.MaxFiles).
		Int("convert_workers", c.ConvertWorkers).
		Int("max_encodes", c.MaxEncodes).
		Int64("max_pixels", c.MaxPixels).
		Dur("request_timeout", c.RequestTimeout).
		Str("codec", c.CodecBackend).
		Strs("allowed_origins", c.AllowedOrigins).
		Msg("server configuration")
}

// NewConfig creates a server configuration from environment variables
func NewConfig() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		log.Error().Err(err).Msg("invalid PORT environment variable")
		return nil, fmt.Errorf("invalid PORT: %q", os.Getenv("PORT"))
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "production"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost"
	}

	uploadMaxSize, err := parseSize(getEnv("UPLOAD_MAX_SIZE", "10MB"))
	if err != nil {
		log.Error().Err(err).Msg("invalid UPLOAD_MAX_SIZE configuration")
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	maxRequestSize, err := parseSize(getEnv("MAX_REQUEST_SIZE", "100MB"))
	if err != nil {
		log.Error().Err(err).Msg("invalid MAX_REQUEST_SIZE configuration")
		return nil, fmt.Errorf("invalid MAX_REQUEST_SIZE: %w", err)
	}

	maxFiles, err := parsePositiveInt(getEnv("MAX_FILES", "20"))
	if err != nil {
		log.Error().Err(err).Msg("invalid MAX_FILES configuration")
		return nil, fmt.Errorf("invalid MAX_FILES: %w", err)
	}

	workers, err := parsePositiveInt(getEnv("CONVERT_WORKERS", "4"))
	if err != nil {
		log.Error().Err(err).Msg("invalid CONVERT_WORKERS configuration")
		return nil, fmt.Errorf("invalid CONVERT_WORKERS: %w", err)
	}

	maxEncodes, err := parsePositiveInt(getEnv("MAX_ENCODES", strconv.Itoa(2*runtime.NumCPU())))
	if err != nil {
		log.Error().Err(err).Msg("invalid MAX_ENCODES configuration")
		return nil, fmt.Errorf("invalid MAX_ENCODES: %w", err)
	}

	maxPixels, err := parsePositiveInt64(getEnv("MAX_PIXELS", "50000000"))
	if err != nil {
		log.Error().Err(err).Msg("invalid MAX_PIXELS configuration")
		return nil, fmt.Errorf("invalid MAX_PIXELS: %w", err)
	}

	timeout, err := parseTimeout(getEnv("REQUEST_TIMEOUT", "60s"))
	if err != nil {
		log.Error().Err(err).Msg("invalid REQUEST_TIMEOUT configuration")
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	backend := getEnv("CODEC_BACKEND", "native")
	if backend != "native" && backend != "magick" {
		return nil, fmt.Errorf("unsupported CODEC_BACKEND: %s", backend)
	}

	return &Config{
		Port:           port,
		Env:            env,
		BaseURL:        baseURL,
		UploadMaxSize:  uploadMaxSize,
		MaxRequestSize: maxRequestSize,
		MaxFiles:       maxFiles,
		ConvertWorkers: workers,
		MaxEncodes:     maxEncodes,
		MaxPixels:      maxPixels,
		RequestTimeout: timeout,
		CodecBackend:   backend,
		AllowedOrigins: parseList(getEnv("CORS_ALLOWED_ORIGINS", "http://*,https://*")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseSize parses a byte size
// Value is expected to be postfixed with "MB" for megabytes or "GB" for gigabytes, e.g. "100MB"
// If no postfix is provided, the value is assumed to be in megabytes
func parseSize(size string) (int64, error) {
	multiplier := int64(1024 * 1024)
	switch {
	case strings.HasSuffix(size, "GB"):
		multiplier = 1024 * 1024 * 1024
		size = strings.TrimSuffix(size, "GB")
	case strings.HasSuffix(size, "MB"):
		size = strings.TrimSuffix(size, "MB")
	}

	value, err := strconv.ParseInt(size, 10, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive, got %d", value)
	}
	return value * multiplier, nil
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", v)
	}
	return v, nil
}

func parsePositiveInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", v)
	}
	return v, nil
}

// parseTimeout accepts a Go duration or a bare number of seconds
func parseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		s = fmt.Sprintf("%ds", secs)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
