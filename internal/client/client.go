package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"convertly-go/internal/models"

	"github.com/rs/zerolog/log"
)

const fallbackMessage = "Error converting files"

// APIError is a structured error returned by the conversion service
type APIError struct {
	Status  int
	Code    string
	Message string
	Failed  []models.FailedFile
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.Status)
}

// Client talks to a conversion service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the service at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Convert uploads files and returns the converted results
func (c *Client) Convert(ctx context.Context, files []File, format models.Format) (*models.ConvertResponse, error) {
	body, contentType, err := buildForm(files, format)
	if err != nil {
		return nil, fmt.Errorf("error building upload form: %w", err)
	}

	url := c.baseURL + "/api/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	log.Debug().
		Str("url", url).
		Int("files", len(files)).
		Str("format", format.String()).
		Msg("uploading files")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing upload request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading upload response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, decodeError(res.StatusCode, data)
	}

	var resp models.ConvertResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Status: res.StatusCode, Message: fallbackMessage}
	}

	return &resp, nil
}

// Formats asks the service which target formats it supports
func (c *Client) Formats(ctx context.Context) (*models.FormatsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/formats", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating formats request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing formats request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading formats response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, decodeError(res.StatusCode, data)
	}

	var resp models.FormatsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("error decoding formats response: %w", err)
	}
	return &resp, nil
}

func decodeError(status int, data []byte) *APIError {
	var body models.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return &APIError{Status: status, Message: fallbackMessage}
	}
	return &APIError{
		Status:  status,
		Code:    body.Code,
		Message: body.Error,
		Failed:  body.Failed,
	}
}

func buildForm(files []File, format models.Format) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(f.Name)))
		contentType := f.MIMEType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.WriteField("targetFormat", format.String()); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return body, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
