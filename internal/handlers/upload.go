// ===============================
// internal/handlers/upload.go - Multipart File Intake
// ===============================

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"videotube/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Allowed extensions per form field
var allowedTypes = map[string][]string{
	"videoFile": {".mp4", ".m4v", ".mov", ".avi", ".webm", ".mkv", ".ts"},
	"thumbnail": {".jpg", ".jpeg", ".png", ".webp", ".gif"},
}

// UploadIntake copies multipart files into the temp directory so the media
// bridge can probe and stream them.
type UploadIntake struct {
	tmpDir   string
	maxBytes int64
}

func NewUploadIntake(tmpDir string, maxBytes int64) *UploadIntake {
	return &UploadIntake{tmpDir: tmpDir, maxBytes: maxBytes}
}

// limit caps the whole request body before the multipart form is parsed
func (u *UploadIntake) limit(c *gin.Context) {
	if u.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxBytes)
	}
}

// save stores the named form file and returns its temp path. A missing file
// returns an empty path so the service can report every missing field.
func (u *UploadIntake) save(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", apperrors.InvalidInput(fmt.Sprintf("Upload exceeds %d MB", u.maxBytes>>20))
		}
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperrors.InvalidInput("Invalid multipart form").WithDetails(err.Error())
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if allowed, ok := allowedTypes[field]; ok && !containsExt(allowed, ext) {
		return "", apperrors.InvalidInput(fmt.Sprintf("Invalid file type for %s", field)).
			WithDetails(fmt.Sprintf("allowed: %s, received: %q", strings.Join(allowed, " "), ext))
	}

	path := filepath.Join(u.tmpDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", apperrors.Internal("Failed to store upload", err)
	}
	return path, nil
}

// cleanup removes temp files the media bridge never consumed
func cleanup(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

func containsExt(allowed []string, ext string) bool {
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}
