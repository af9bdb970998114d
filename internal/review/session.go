// Package review tracks the state of one human review pass over an extracted
// invoice: field overrides, validation errors, page navigation and the
// submit lifecycle.
package review

import (
	"errors"

	"github.com/clarkhq/clark/internal/extraction"
)

// State is the review lifecycle phase of a session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	ErrNotLoaded     = errors.New("review: session not loaded")
	ErrSubmitPending = errors.New("review: submit already in progress")
)

// Session is the mutable review state for one invoice. It is not safe for
// concurrent use on its own; Manager serializes access.
type Session struct {
	InvoiceID string
	State     State

	Buckets     extraction.Buckets
	Overrides   map[string]string
	FieldErrors map[string]string

	CurrentPage int
	Highlighted string

	// FailureMsg holds the terminal error when State is StateError.
	FailureMsg string
}

// NewSession opens a session in the loading state.
func NewSession(invoiceID string) *Session {
	return &Session{
		InvoiceID:   invoiceID,
		State:       StateLoading,
		Overrides:   map[string]string{},
		FieldErrors: map[string]string{},
		CurrentPage: 1,
	}
}

// Load classifies the extracted document and moves the session to loaded.
// Overrides and errors reset: the buckets are always re-derived from the
// current entity list.
func (s *Session) Load(doc *extraction.Document) {
	s.Buckets = extraction.Classify(doc.Entities)
	s.Overrides = map[string]string{}
	s.FieldErrors = map[string]string{}
	s.CurrentPage = 1
	s.Highlighted = ""
	s.FailureMsg = ""
	s.State = StateLoaded
}

// Fail records a terminal load or submit failure.
func (s *Session) Fail(msg string) {
	s.State = StateError
	s.FailureMsg = msg
}

// SetField records an override for a field key (an entity id or a line-item
// property key) and clears the validation error for that key only. Other
// errors stand until the next validation run.
func (s *Session) SetField(key, value string) error {
	if s.State != StateLoaded {
		return ErrNotLoaded
	}
	s.Overrides[key] = value
	delete(s.FieldErrors, key)
	return nil
}

// SetPage moves the visible page, clamped to the pages the document has.
// Switching pages always drops the active highlight.
func (s *Session) SetPage(page int) error {
	if s.State != StateLoaded {
		return ErrNotLoaded
	}
	pages := s.Buckets.Pages()
	if len(pages) > 0 {
		if last := pages[len(pages)-1]; page > last {
			page = last
		}
	}
	if page < 1 {
		page = 1
	}
	if page != s.CurrentPage {
		s.Highlighted = ""
	}
	s.CurrentPage = page
	return nil
}

// SetHighlight marks an entity as the active highlight. An empty id clears
// it; clicking the already-highlighted entity clears it too.
func (s *Session) SetHighlight(entityID string) error {
	if s.State != StateLoaded {
		return ErrNotLoaded
	}
	if entityID == s.Highlighted {
		s.Highlighted = ""
		return nil
	}
	s.Highlighted = entityID
	return nil
}

// BeginSubmit runs totals validation and moves the session to submitting
// when it passes. On validation failure the session stays loaded with
// FieldErrors populated and ok is false; the only way past a mismatch is
// editing a field. Duplicate conflicts are the persistence layer's gate
// and the one a reviewer may force through.
func (s *Session) BeginSubmit() (ok bool, err error) {
	switch s.State {
	case StateLoaded:
	case StateSubmitting:
		return false, ErrSubmitPending
	default:
		return false, ErrNotLoaded
	}

	errs := extraction.ValidateTotals(s.Buckets, s.Overrides)
	if len(errs) > 0 {
		s.FieldErrors = errs
		return false, nil
	}

	s.FieldErrors = map[string]string{}
	s.State = StateSubmitting
	return true, nil
}

// FinishSubmit closes the submit attempt. A nil error lands in success; any
// other error returns the session to loaded so the reviewer can retry, with
// the message kept for display.
func (s *Session) FinishSubmit(submitErr error) error {
	if s.State != StateSubmitting {
		return ErrNotLoaded
	}
	if submitErr == nil {
		s.State = StateSuccess
		s.FailureMsg = ""
		return nil
	}
	s.State = StateLoaded
	s.FailureMsg = submitErr.Error()
	return nil
}
