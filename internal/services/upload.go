// ===============================
// internal/services/upload.go - Media Bridge (R2 uploads, deletes, probing)
// ===============================

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"videotube/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ObjectStore is the slice of the R2 client the media bridge needs
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
	KeyFromURL(rawURL string) (string, error)
}

// DurationProber returns the playback length of a local media file in seconds
type DurationProber func(path string) (float64, error)

type UploadService struct {
	store   ObjectStore
	probe   DurationProber
	timeout time.Duration
	log     zerolog.Logger
}

func NewUploadService(store ObjectStore, timeout time.Duration, log zerolog.Logger) *UploadService {
	return &UploadService{
		store:   store,
		probe:   ProbeDuration,
		timeout: timeout,
		log:     log.With().Str("component", "media").Logger(),
	}
}

// Upload pushes a local temp file to R2 and returns its public URL. The
// local file is removed afterwards whether or not the upload succeeded.
func (s *UploadService) Upload(ctx context.Context, localPath string) (*models.UploadedMedia, error) {
	defer s.removeLocal(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return nil, errors.Wrap(err, "media: open local file")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(localPath))
	kind := "images"
	var duration float64
	if isVideoExtension(ext) {
		kind = "videos"
		if duration, err = s.probe(localPath); err != nil {
			s.log.Warn().Err(err).Str("path", localPath).Msg("duration probe failed, storing 0")
			duration = 0
		}
	}

	// Generate unique object key
	key := fmt.Sprintf("%s/%d_%s%s", kind, time.Now().Unix(), uuid.New().String()[:8], ext)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.store.UploadFile(ctx, key, file, getContentType(ext)); err != nil {
		return nil, errors.Wrap(err, "media: upload")
	}

	s.log.Debug().Str("key", key).Float64("duration", duration).Msg("media uploaded")

	return &models.UploadedMedia{
		URL:      s.store.GetPublicURL(key),
		Key:      key,
		Duration: duration,
	}, nil
}

// Delete removes a hosted asset by URL. Failures are logged, never returned.
func (s *UploadService) Delete(ctx context.Context, url string) {
	if url == "" {
		return
	}

	key, err := s.store.KeyFromURL(url)
	if err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("cannot derive media key, asset left in place")
		return
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.store.DeleteFile(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("media delete failed")
		return
	}
	s.log.Debug().Str("key", key).Msg("media deleted")
}

func (s *UploadService) removeLocal(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
	}
}

// ProbeDuration reads the container duration with ffprobe
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, errors.WithMessage(err, "ffprobe failed")
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(probeJSON string) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &probe); err != nil {
		return 0, errors.Wrap(err, "decode ffprobe output")
	}
	if probe.Format.Duration == "" {
		return 0, errors.New("ffprobe output has no duration")
	}
	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse ffprobe duration")
	}
	return duration, nil
}

func isVideoExtension(ext string) bool {
	switch ext {
	case ".mp4", ".mov", ".avi", ".webm", ".mkv", ".m4v", ".ts":
		return true
	}
	return false
}

func getContentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/avi"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".ts":
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}
