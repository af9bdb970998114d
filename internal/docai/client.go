package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/clarkhq/clark/internal/config"
	"github.com/clarkhq/clark/internal/extraction"
)

const processTimeout = 120 * time.Second

// Client is the REST client for the processor :process endpoint.
type Client struct {
	endpoint    string
	projectID   string
	location    string
	processorID string
	accessToken string

	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds the processor client from configuration. The returned
// client reports ErrNotConfigured on use when credentials are missing, so
// the app can still boot for local review of already-processed documents.
func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		endpoint:    cfg.DocAIEndpoint,
		projectID:   cfg.DocAIProjectID,
		location:    cfg.DocAILocation,
		processorID: cfg.DocAIProcessorID,
		accessToken: cfg.DocAIAccessToken,
		httpClient:  &http.Client{Timeout: processTimeout},
		log:         log.Named("docai"),
	}
}

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type processResponse struct {
	Document extraction.Document `json:"document"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Process sends the document to the processor and decodes its entity list.
func (c *Client) Process(ctx context.Context, content []byte, mimeType string) (*extraction.Document, error) {
	if c.projectID == "" || c.processorID == "" || c.accessToken == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(content),
			MimeType: mimeType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("docai: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/processors/%s:process",
		c.endpoint, c.projectID, c.location, c.processorID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("docai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docai: call processor: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("docai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("docai: processor returned %s: %s", apiErr.Error.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("docai: processor returned status %d", resp.StatusCode)
	}

	var decoded processResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("docai: decode response: %w", err)
	}

	doc := decoded.Document
	AssignEntityIDs(&doc)

	c.log.Info("document processed",
		zap.String("mime_type", mimeType),
		zap.Int("entities", len(doc.Entities)),
		zap.Duration("took", time.Since(start)),
	)
	return &doc, nil
}

// AssignEntityIDs fills in ids the processor left empty so every entity can
// be addressed by the review UI. Existing ids are kept untouched.
func AssignEntityIDs(doc *extraction.Document) {
	next := 0
	var walk func(entities []extraction.Entity)
	walk = func(entities []extraction.Entity) {
		for i := range entities {
			if entities[i].ID == "" {
				entities[i].ID = "entity-" + strconv.Itoa(next)
			}
			next++
			walk(entities[i].Properties)
		}
	}
	walk(doc.Entities)
}
