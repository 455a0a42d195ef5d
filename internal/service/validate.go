package service

import (
	"strings"

	"peysphotos/api/internal/config"
	"peysphotos/api/internal/models"
)

// videoContentTypes is the fixed allow-list of accepted video containers.
var videoContentTypes = map[string]struct{}{
	"video/mp4":        {},
	"video/quicktime":  {},
	"video/webm":       {},
	"video/x-matroska": {},
}

// UploadRequest carries one intake submission through the pipeline.
type UploadRequest struct {
	Data         []byte
	Filename     string
	DeclaredType string
	Title        string
	Description  string
	CategoryID   string
	Kind         models.MediaKind

	// Client-reported technical metadata for videos; the host does not probe
	// video streams at upload time.
	Duration  *float64
	Width     *int
	Height    *int
	Bitrate   *int
	FrameRate *float64
}

// ValidateUpload runs the intake checks in their fixed order and returns the
// first rejection. The image size ceiling is not applied here: oversized
// images get a compression pass first, and the pipeline re-checks afterwards.
func ValidateUpload(req *UploadRequest, limits config.UploadConfig) error {
	if len(req.Data) == 0 {
		return ErrNoFile
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return ErrMissingTitle
	}

	if strings.TrimSpace(req.CategoryID) == "" {
		return ErrMissingCategory
	}

	switch req.Kind {
	case models.MediaKindImage:
		if !strings.HasPrefix(req.DeclaredType, "image/") {
			return ErrWrongType
		}
	case models.MediaKindVideo:
		if _, ok := videoContentTypes[req.DeclaredType]; !ok {
			return ErrWrongType
		}
		if int64(len(req.Data)) > limits.MaxVideoBytes {
			return ErrTooLarge
		}
	default:
		return ErrWrongType
	}

	return nil
}
