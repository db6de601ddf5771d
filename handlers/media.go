package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/devfolio/devfolio/internal/storage"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/gin-gonic/gin"
)

// MediaHandler serves uploaded images and accepts new ones.
type MediaHandler struct {
	objects storage.ObjectStore
	images  *storage.Images
}

func NewMediaHandler(objects storage.ObjectStore, images *storage.Images) *MediaHandler {
	return &MediaHandler{objects: objects, images: images}
}

// Register registers the public media route.
func (h *MediaHandler) Register(r gin.IRoutes) {
	r.GET("/media/*key", h.Serve)
}

// Serve streams the object stored under key.
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, "images/") || strings.Contains(key, "..") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	rc, info, err := h.objects.Get(c.Request.Context(), key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		logger.Errorf("media: get %s: %v", key, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "object storage unavailable"})
		return
	}
	defer rc.Close()
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, nil)
}

// Upload stores the multipart "file" field and answers with its public URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	url, err := h.images.Save(c.Request.Context(), f)
	if err != nil {
		status := uploadStatus(err)
		if status == http.StatusBadGateway {
			logger.Errorf("media: upload failed: %v", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
