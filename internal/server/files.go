package server

import (
	"fmt"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/clarkhq/clark/internal/blob"
)

func (s *Server) objectPath(folder, name string) string {
	return fmt.Sprintf("file://%s/%s/%s", s.cfg.BlobBucket, folder, name)
}

// serveDocument streams a stored original back to the viewer.
func (s *Server) serveDocument(c *gin.Context) {
	name := c.Param("name")

	content, err := s.store.Open(c.Request.Context(), s.objectPath(blob.FolderDocuments, name))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Filename(name)))
	c.Data(http.StatusOK, contentType, content)
}

// serveAIResponse streams an archived processor response.
func (s *Server) serveAIResponse(c *gin.Context) {
	name := c.Param("name")

	content, err := s.store.Open(c.Request.Context(), s.objectPath(blob.FolderAIResponses, name))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", content)
}
