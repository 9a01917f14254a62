package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"convertly-go/internal/codec"
	"convertly-go/internal/config"
	"convertly-go/internal/converter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server and its dependencies
type Server struct {
	config           *config.Config
	codec            codec.Codec
	converterHandler *converter.Handler
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, c codec.Codec) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("codec is required")
	}

	converterService := converter.NewService(c, cfg)
	converterHandler := converter.NewHandler(converterService, cfg)

	return &Server{
		config:           cfg,
		codec:            c,
		converterHandler: converterHandler,
	}, nil
}

// Slowest upload rate a client may have while sending MAX_REQUEST_SIZE
const minUploadRate = 256 * 1024

// readTimeout gives a body of maxRequestSize bytes time to arrive at
// minUploadRate, on top of a one minute base.
func readTimeout(maxRequestSize int64) time.Duration {
	if maxRequestSize <= 0 {
		return time.Minute
	}
	return time.Minute + time.Duration(maxRequestSize/minUploadRate)*time.Second
}

// Start builds the HTTP server. The write timeout runs from the end of the
// request headers, so it covers reading the body and the conversion deadline.
func (s *Server) Start() (*http.Server, error) {
	read := readTimeout(s.config.MaxRequestSize)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       read,
		WriteTimeout:      read + s.config.RequestTimeout + time.Minute,
	}

	log.Info().
		Int("port", s.config.Port).
		Str("env", s.config.Env).
		Str("codec", s.codec.Name()).
		Dur("read_timeout", srv.ReadTimeout).
		Dur("write_timeout", srv.WriteTimeout).
		Msg("Starting server")

	return srv, nil
}

// sendJSON sends a JSON response with consistent formatting
func (s *Server) sendJSON(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: success,
		Message: message,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}
