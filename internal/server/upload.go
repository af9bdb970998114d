package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clarkhq/clark/internal/pipeline"
)

// maxUploadBytes caps one uploaded document at 20 MB.
const maxUploadBytes = 20 << 20

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/tiff":      true,
}

func readUpload(header *multipart.FileHeader) (pipeline.UploadInput, error) {
	if header.Size > maxUploadBytes {
		return pipeline.UploadInput{}, fmt.Errorf("%w: file %s exceeds size limit", ErrInvalidRequest, header.Filename)
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		return pipeline.UploadInput{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidRequest, mimeType)
	}

	file, err := header.Open()
	if err != nil {
		return pipeline.UploadInput{}, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return pipeline.UploadInput{}, err
	}

	return pipeline.UploadInput{
		Filename: header.Filename,
		MimeType: mimeType,
		Content:  content,
	}, nil
}

// processInvoice handles a single upload: extract, persist the draft and
// open a review session primed with the extracted document.
func (s *Server) processInvoice(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: missing file", ErrInvalidRequest))
		return
	}

	input, err := readUpload(header)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	input.RunValidation = true

	result, err := s.pipeline.Process(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session := s.sessions.Open(result.Invoice.ID.String())
	session.Load(result.Document)

	c.JSON(http.StatusOK, result)
}

// batchUpload handles multiple files in one request. Files process in
// order; failures are reported per file and never abort the batch.
func (s *Server) batchUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: invalid multipart form", ErrInvalidRequest))
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		AbortWithError(c, fmt.Errorf("%w: no files supplied", ErrInvalidRequest))
		return
	}

	items := make([]pipeline.UploadInput, 0, len(headers))
	for _, header := range headers {
		input, err := readUpload(header)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		items = append(items, input)
	}

	batch := s.pipeline.ProcessBatch(c.Request.Context(), items)
	c.JSON(http.StatusOK, batch)
}
