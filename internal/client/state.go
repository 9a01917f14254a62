package client

import (
	"errors"
	"slices"

	"convertly-go/internal/models"
)

var (
	ErrUploading      = errors.New("an upload is already in progress")
	ErrNothingPending = errors.New("no files selected")
)

// State is the client session. Every action returns a new State and leaves
// the receiver untouched.
type State struct {
	Pending   []File
	Rejected  []Rejection
	Format    models.Format
	Results   []models.ConvertedFile
	Failed    []models.FailedFile
	Uploading bool
	Err       error
}

// NewState returns an empty session targeting format
func NewState(format models.Format) State {
	return State{Format: format}
}

func (s State) clone() State {
	s.Pending = slices.Clone(s.Pending)
	s.Rejected = slices.Clone(s.Rejected)
	s.Results = slices.Clone(s.Results)
	s.Failed = slices.Clone(s.Failed)
	return s
}

// AddFiles validates files and appends the accepted ones to the pending set.
// Rejections replace the previous ones.
func (s State) AddFiles(files []File) State {
	next := s.clone()
	accepted, rejected := ValidateFiles(files)
	next.Pending = append(next.Pending, accepted...)
	next.Rejected = rejected
	next.Err = nil
	return next
}

// RemoveFile drops the pending file at index. Out of range is a no-op.
func (s State) RemoveFile(index int) State {
	next := s.clone()
	if index < 0 || index >= len(next.Pending) {
		return next
	}
	next.Pending = slices.Delete(next.Pending, index, index+1)
	return next
}

// SelectFormat changes the target format
func (s State) SelectFormat(format models.Format) State {
	next := s.clone()
	next.Format = format
	return next
}

// BeginSubmit marks the session as uploading
func (s State) BeginSubmit() (State, error) {
	if s.Uploading {
		return s, ErrUploading
	}
	if len(s.Pending) == 0 {
		return s, ErrNothingPending
	}
	next := s.clone()
	next.Uploading = true
	next.Err = nil
	return next, nil
}

// CompleteSubmit replaces the results with resp and clears the pending set
func (s State) CompleteSubmit(resp *models.ConvertResponse) State {
	next := s.clone()
	next.Uploading = false
	next.Pending = nil
	next.Results = nil
	next.Failed = nil
	if resp != nil {
		next.Results = slices.Clone(resp.Files)
		next.Failed = slices.Clone(resp.Failed)
	}
	next.Err = nil
	return next
}

// FailSubmit records err and keeps the pending set for another try
func (s State) FailSubmit(err error) State {
	next := s.clone()
	next.Uploading = false
	next.Err = err
	return next
}

// Reset clears everything but the selected format
func (s State) Reset() State {
	return NewState(s.Format)
}
