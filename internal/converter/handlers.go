package converter

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"convertly-go/internal/config"
	"convertly-go/internal/models"
	"convertly-go/internal/validation"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Parts beyond this are spooled to temporary files by the multipart reader
const maxMemory = 32 << 20

type Handler struct {
	service        *Service
	maxRequestSize int64
	maxFileSize    int64
	maxFiles       int
}

func NewHandler(service *Service, cfg *config.Config) *Handler {
	return &Handler{
		service:        service,
		maxRequestSize: cfg.MaxRequestSize,
		maxFileSize:    cfg.UploadMaxSize,
		maxFiles:       cfg.MaxFiles,
	}
}

// ConvertForm is the validated shape of an upload request
type ConvertForm struct {
	Files        []*multipart.FileHeader `validate:"required,min=1"`
	TargetFormat string                  `validate:"required,targetformat"`
}

// HandleConvert handles POST /api/upload
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	l := log.Ctx(r.Context())

	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			l.Warn().Int64("limit", maxErr.Limit).Msg("upload request too large")
			HandleError(w, ErrRequestTooLarge, nil)
			return
		}
		// A plain form post can carry a format but never files
		if errors.Is(err, http.ErrNotMultipart) {
			HandleError(w, ErrNoFilesProvided, nil)
			return
		}
		l.Warn().Err(err).Msg("invalid multipart form")
		HandleError(w, ErrInvalidForm, nil)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			l.Error().Err(err).Msg("error removing multipart temp files")
		}
	}()

	form := ConvertForm{
		Files:        r.MultipartForm.File["files"],
		TargetFormat: r.FormValue("targetFormat"),
	}
	if apiErr := validateForm(&form, h.maxFiles); apiErr != nil {
		l.Warn().
			Str("code", apiErr.Code).
			Int("files", len(form.Files)).
			Str("target_format", form.TargetFormat).
			Msg("rejected upload request")
		HandleError(w, apiErr, nil)
		return
	}

	format, err := models.ParseFormat(form.TargetFormat)
	if err != nil {
		HandleError(w, ErrUnsupportedFormat, nil)
		return
	}

	files := make([]File, 0, len(form.Files))
	for _, fh := range form.Files {
		data, err := readPart(fh)
		if err != nil {
			l.Error().Err(err).Str("file", fh.Filename).Msg("error reading uploaded file")
			HandleError(w, ErrInvalidForm, nil)
			return
		}
		files = append(files, File{
			Name:         fh.Filename,
			Data:         data,
			DeclaredType: fh.Header.Get("Content-Type"),
		})
	}

	report, err := h.service.Convert(r.Context(), &UploadRequest{Files: files, Format: format})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFiles):
			HandleError(w, ErrNoFilesProvided, nil)
		case errors.Is(err, models.ErrUnsupportedFormat):
			HandleError(w, ErrUnsupportedFormat, nil)
		default:
			l.Error().Err(err).Msg("error processing files")
			HandleError(w, ErrProcessing, nil)
		}
		return
	}

	resp := report.Response()
	original, converted := report.Totals()
	l.Info().
		Str("format", format.String()).
		Int("files", len(files)).
		Int("converted", len(resp.Files)).
		Int("failed", len(resp.Failed)).
		Str("original_size", humanize.IBytes(uint64(original))).
		Str("converted_size", humanize.IBytes(uint64(converted))).
		Msg("conversion finished")

	if len(resp.Files) == 0 {
		HandleError(w, ErrProcessing, resp.Failed)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// HandleFormats handles GET /api/formats
func (h *Handler) HandleFormats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, models.FormatsResponse{
		Formats:     models.SupportedFormats,
		MaxFileSize: h.maxFileSize,
		MaxFiles:    h.maxFiles,
	})
}

// validateForm maps validation failures to API errors. A missing file list
// wins over a bad format so an empty submission always reads "No files provided".
func validateForm(form *ConvertForm, maxFiles int) *APIError {
	if err := validation.Validate(form); err != nil {
		apiErr := ErrUnsupportedFormat
		for _, ve := range validation.FormatError(err) {
			if ve.Field == "files" {
				apiErr = ErrNoFilesProvided
			}
		}
		return apiErr
	}
	if maxFiles > 0 && len(form.Files) > maxFiles {
		return ErrTooManyFiles
	}
	return nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening part: %w", err)
	}
	defer func(file multipart.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Str("file", fh.Filename).Msg("error closing file")
		}
	}(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading part: %w", err)
	}
	return data, nil
}
