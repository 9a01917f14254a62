package converter

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"convertly-go/internal/models"
)

// File is one uploaded image as received from the client.
type File struct {
	Name         string // Client-supplied filename, may include a path
	Data         []byte // Raw uploaded bytes
	DeclaredType string // Content-Type of the multipart part
}

// UploadRequest represents conversion parameters
type UploadRequest struct {
	Files  []File
	Format models.Format
}

// Result is a successfully converted file, held in memory for the response only.
type Result struct {
	Index         int
	Name          string
	Data          []byte
	MIMEType      string
	OriginalSize  int64
	ConvertedSize int64
}

// Failure describes why a single file could not be converted. Reason is
// safe to show to users; Err is for logs.
type Failure struct {
	Index  int
	Name   string
	Code   string
	Reason string
	Err    error
}

// Outcome holds exactly one of Result or Failure.
type Outcome struct {
	Result  *Result
	Failure *Failure
}

func (o Outcome) OK() bool {
	return o.Result != nil
}

// Report collects the outcome of every file of a request, in input order.
type Report struct {
	Format   models.Format
	Outcomes []Outcome
}

func (r *Report) Results() []*Result {
	var results []*Result
	for _, o := range r.Outcomes {
		if o.Result != nil {
			results = append(results, o.Result)
		}
	}
	return results
}

func (r *Report) Failures() []*Failure {
	var failures []*Failure
	for _, o := range r.Outcomes {
		if o.Failure != nil {
			failures = append(failures, o.Failure)
		}
	}
	return failures
}

// Totals returns the summed original and converted sizes of successful files
func (r *Report) Totals() (original, converted int64) {
	for _, res := range r.Results() {
		original += res.OriginalSize
		converted += res.ConvertedSize
	}
	return original, converted
}

// Response builds the wire representation of the report
func (r *Report) Response() *models.ConvertResponse {
	results := r.Results()
	failures := r.Failures()

	resp := &models.ConvertResponse{
		Message: "Files converted successfully",
		Files:   make([]models.ConvertedFile, 0, len(results)),
	}
	if len(failures) > 0 {
		resp.Message = fmt.Sprintf("Converted %d of %d files", len(results), len(r.Outcomes))
	}

	for _, res := range results {
		resp.Files = append(resp.Files, models.ConvertedFile{
			Name:   res.Name,
			Buffer: base64.StdEncoding.EncodeToString(res.Data),
			Type:   res.MIMEType,
			Metadata: &models.FileMetadata{
				Original:  models.SizeInfo{Size: res.OriginalSize},
				Converted: models.SizeInfo{Size: res.ConvertedSize},
			},
		})
	}
	resp.Failed = failedFiles(failures)

	return resp
}

func failedFiles(failures []*Failure) []models.FailedFile {
	if len(failures) == 0 {
		return nil
	}
	out := make([]models.FailedFile, 0, len(failures))
	for _, f := range failures {
		out = append(out, models.FailedFile{Name: f.Name, Code: f.Code, Error: f.Reason})
	}
	return out
}

// OutputName derives the converted filename: the input's basename up to its
// first dot, plus the target extension. Both slash styles are treated as
// path separators since browsers on Windows may send either.
func OutputName(original string, format models.Format) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if strings.TrimSpace(base) == "" {
		base = "image"
	}
	return base + format.Extension()
}
