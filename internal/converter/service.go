package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"convertly-go/internal/codec"
	"convertly-go/internal/config"
	"convertly-go/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type Service struct {
	codec       codec.Codec
	maxFileSize int64
	maxPixels   int64
	workers     int
	timeout     time.Duration

	// Held for the whole codec run, even after the caller gave up on it
	encodes *semaphore.Weighted
}

func NewService(c codec.Codec, cfg *config.Config) *Service {
	workers := cfg.ConvertWorkers
	if workers <= 0 {
		workers = 1
	}
	encodes := int64(cfg.MaxEncodes)
	if encodes <= 0 {
		encodes = int64(workers)
	}
	return &Service{
		codec:       c,
		maxFileSize: cfg.UploadMaxSize,
		maxPixels:   cfg.MaxPixels,
		workers:     workers,
		timeout:     cfg.RequestTimeout,
		encodes:     semaphore.NewWeighted(encodes),
	}
}

// Convert converts every file of the request independently. A failing file
// never affects the others; the returned report has one outcome per input
// file, in input order. An error is only returned for an invalid request.
func (s *Service) Convert(ctx context.Context, req *UploadRequest) (*Report, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}
	if !req.Format.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, req.Format)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	outcomes := make([]Outcome, len(req.Files))

	// Units never return an error, so a plain group is enough: nothing may
	// cancel the siblings of a failed file.
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, f := range req.Files {
		g.Go(func() error {
			outcomes[i] = s.convertOne(ctx, i, f, req.Format)
			return nil
		})
	}
	_ = g.Wait()

	return &Report{Format: req.Format, Outcomes: outcomes}, nil
}

func (s *Service) convertOne(ctx context.Context, index int, f File, format models.Format) Outcome {
	name := OutputName(f.Name, format)
	l := log.Ctx(ctx).With().
		Int("index", index).
		Str("file", f.Name).
		Str("format", format.String()).
		Logger()

	fail := func(code string, err error) Outcome {
		l.Warn().Err(err).Str("code", code).Msg("file conversion failed")
		return Outcome{Failure: &Failure{
			Index:  index,
			Name:   f.Name,
			Code:   code,
			Reason: failureReasons[code],
			Err:    err,
		}}
	}

	if err := ctx.Err(); err != nil {
		return fail(models.CodeTimeout, err)
	}

	if s.maxFileSize > 0 && int64(len(f.Data)) > s.maxFileSize {
		return fail(models.CodeFileTooLarge, fmt.Errorf("%w: %s", ErrFileTooLarge, humanize.IBytes(uint64(len(f.Data)))))
	}

	detected := mimetype.Detect(f.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return fail(models.CodeNotAnImage, fmt.Errorf("%w: detected %s, declared %q", ErrNotAnImage, detected.String(), f.DeclaredType))
	}

	if err := s.checkDimensions(f.Data); err != nil {
		return fail(models.CodeImageTooLarge, err)
	}

	start := time.Now()
	data, err := s.encode(ctx, f.Data, format)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fail(models.CodeTimeout, err)
		}
		return fail(models.CodeConversionFailed, err)
	}

	l.Debug().
		Str("detected", detected.String()).
		Str("original_size", humanize.IBytes(uint64(len(f.Data)))).
		Str("converted_size", humanize.IBytes(uint64(len(data)))).
		Dur("took", time.Since(start)).
		Msg("file converted")

	return Outcome{Result: &Result{
		Index:         index,
		Name:          name,
		Data:          data,
		MIMEType:      format.MIMEType(),
		OriginalSize:  int64(len(f.Data)),
		ConvertedSize: int64(len(data)),
	}}
}

// checkDimensions rejects images whose header declares more pixels than
// allowed. Formats the standard decoders can't read pass through to the codec.
func (s *Service) checkDimensions(data []byte) error {
	if s.maxPixels <= 0 {
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > s.maxPixels {
		return fmt.Errorf("%w: %dx%d is %d pixels, limit %d", ErrImageTooLarge, cfg.Width, cfg.Height, pixels, s.maxPixels)
	}
	return nil
}

// encode runs the codec but stops waiting once ctx is done, so a codec that
// ignores cancellation cannot hold the response past the deadline. The encode
// slot is only released when the codec really returns.
func (s *Service) encode(ctx context.Context, data []byte, format models.Format) ([]byte, error) {
	type encoded struct {
		data []byte
		err  error
	}

	if err := s.encodes.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	done := make(chan encoded, 1)
	go func() {
		defer s.encodes.Release(1)
		out, err := s.codec.Encode(ctx, data, format)
		done <- encoded{data: out, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).Warn().
			Str("format", format.String()).
			Str("size", humanize.IBytes(uint64(len(data)))).
			Msg("abandoned encode still running, slot held until it returns")
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}
