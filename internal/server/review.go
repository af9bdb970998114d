package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/clarkhq/clark/internal/extraction"
	"github.com/clarkhq/clark/internal/review"
)

// sessionView is the serialized review session handed to the UI.
type sessionView struct {
	InvoiceID   string            `json:"invoice_id"`
	State       string            `json:"state"`
	CurrentPage int               `json:"current_page"`
	Pages       []pageView        `json:"pages"`
	Overrides   map[string]string `json:"overrides"`
	FieldErrors map[string]string `json:"field_errors"`
	Highlighted string            `json:"highlighted,omitempty"`
	FailureMsg  string            `json:"failure_message,omitempty"`
}

type pageView struct {
	Page      int                 `json:"page"`
	Supplier  []extraction.Entity `json:"supplier"`
	Invoice   []extraction.Entity `json:"invoice"`
	Receiver  []extraction.Entity `json:"receiver"`
	Totals    []extraction.Entity `json:"totals"`
	Other     []extraction.Entity `json:"other"`
	LineItems []lineItemView      `json:"line_items"`
}

type lineItemView struct {
	ID         string                         `json:"id"`
	Confidence float64                        `json:"confidence"`
	Properties map[string]extraction.Property `json:"properties"`
}

func viewOf(session *review.Session) sessionView {
	view := sessionView{
		InvoiceID:   session.InvoiceID,
		State:       session.State.String(),
		CurrentPage: session.CurrentPage,
		Overrides:   session.Overrides,
		FieldErrors: session.FieldErrors,
		Highlighted: session.Highlighted,
		FailureMsg:  session.FailureMsg,
	}
	for _, page := range session.Buckets.Pages() {
		bucket := session.Buckets[page]
		pv := pageView{
			Page:     page,
			Supplier: bucket.Supplier,
			Invoice:  bucket.Invoice,
			Receiver: bucket.Receiver,
			Totals:   bucket.Totals,
			Other:    bucket.Other,
		}
		for _, item := range bucket.LineItems {
			pv.LineItems = append(pv.LineItems, lineItemView{
				ID:         item.ID,
				Confidence: item.Confidence,
				Properties: item.Properties,
			})
		}
		view.Pages = append(view.Pages, pv)
	}
	return view
}

// reviewState resolves the buckets and overrides for an invoice: the open
// session when there is one, the archived processor response otherwise.
// Body overrides win over session overrides on key conflicts.
func (s *Server) reviewState(c *gin.Context, id snowflake.ID, bodyOverrides map[string]string) (extraction.Buckets, map[string]string, error) {
	overrides := map[string]string{}

	if session := s.sessions.Get(id.String()); session != nil && session.State == review.StateLoaded {
		for key, value := range session.Overrides {
			overrides[key] = value
		}
		for key, value := range bodyOverrides {
			overrides[key] = value
		}
		return session.Buckets, overrides, nil
	}

	doc, err := s.archivedDocument(c, id)
	if err != nil {
		return nil, nil, err
	}
	for key, value := range bodyOverrides {
		overrides[key] = value
	}
	return extraction.Classify(doc.Entities), overrides, nil
}

func (s *Server) archivedDocument(c *gin.Context, id snowflake.ID) (*extraction.Document, error) {
	invoice, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if invoice.ResponsePath == "" {
		return nil, fmt.Errorf("%w: invoice has no archived extraction", ErrInvalidRequest)
	}

	payload, err := s.store.Open(c.Request.Context(), invoice.ResponsePath)
	if err != nil {
		return nil, err
	}

	var doc extraction.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode archived extraction: %w", err)
	}
	return &doc, nil
}

// getReviewSession returns the session for an invoice, opening one from the
// archived extraction when none is live.
func (s *Server) getReviewSession(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session := s.sessions.Get(id.String())
	if session == nil || session.State == review.StateError {
		doc, err := s.archivedDocument(c, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		session = s.sessions.Open(id.String())
		session.Load(doc)
	}

	c.JSON(http.StatusOK, viewOf(session))
}

type setFieldRequest struct {
	Value string `json:"value"`
}

func (s *Server) setReviewField(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: invalid body", ErrInvalidRequest))
		return
	}

	key := c.Param("key")
	found, err := s.sessions.Update(id.String(), func(session *review.Session) error {
		return session.SetField(key, req.Value)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, fmt.Errorf("%w: no open review session", ErrInvalidRequest))
		return
	}

	c.JSON(http.StatusOK, viewOf(s.sessions.Get(id.String())))
}

type setPageRequest struct {
	Page int `json:"page"`
}

func (s *Server) setReviewPage(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req setPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: invalid body", ErrInvalidRequest))
		return
	}

	found, err := s.sessions.Update(id.String(), func(session *review.Session) error {
		return session.SetPage(req.Page)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, fmt.Errorf("%w: no open review session", ErrInvalidRequest))
		return
	}

	c.JSON(http.StatusOK, viewOf(s.sessions.Get(id.String())))
}

type highlightRequest struct {
	EntityID string  `json:"entity_id"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type highlightResponse struct {
	Highlighted string                `json:"highlighted"`
	Rect        *extraction.PixelRect `json:"rect,omitempty"`
}

// setReviewHighlight toggles the highlighted entity and maps its anchor to
// pixel coordinates for the caller's rendered page size. A highlight on a
// different page yields no rectangle.
func (s *Server) setReviewHighlight(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: invalid body", ErrInvalidRequest))
		return
	}

	var resp highlightResponse
	found, err := s.sessions.Update(id.String(), func(session *review.Session) error {
		if err := session.SetHighlight(req.EntityID); err != nil {
			return err
		}
		resp.Highlighted = session.Highlighted
		if session.Highlighted == "" {
			return nil
		}
		if entity := session.Buckets.FindEntity(session.Highlighted); entity != nil {
			resp.Rect = extraction.Highlight(entity, session.CurrentPage, req.Width, req.Height)
		} else if item := session.Buckets.FindLineItem(session.Highlighted); item != nil {
			resp.Rect = extraction.HighlightLineItem(item, session.CurrentPage, req.Width, req.Height)
		}
		return nil
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, fmt.Errorf("%w: no open review session", ErrInvalidRequest))
		return
	}

	c.JSON(http.StatusOK, resp)
}
