package sniffer

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/textproto"

	"peysphotos/api/internal/models"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWEBP MediaType = "webp"
	TypeAVIF MediaType = "avif"
	TypeMP4  MediaType = "mp4"
	TypeMOV  MediaType = "mov"
	TypeWEBM MediaType = "webm"
	TypeMKV  MediaType = "mkv"
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	Kind models.MediaKind
	MIME string
}

func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]

	result, err := DetectHead(head)
	return result, head, err
}

func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if isJPEG(head) {
		return Result{Type: TypeJPEG, Kind: models.MediaKindImage, MIME: "image/jpeg"}, nil
	}
	if isPNG(head) {
		return Result{Type: TypePNG, Kind: models.MediaKindImage, MIME: "image/png"}, nil
	}
	if isGIF(head) {
		return Result{Type: TypeGIF, Kind: models.MediaKindImage, MIME: "image/gif"}, nil
	}
	if isWEBP(head) {
		return Result{Type: TypeWEBP, Kind: models.MediaKindImage, MIME: "image/webp"}, nil
	}
	if t, ok := isoBrandType(head); ok {
		return t, nil
	}
	if isEBML(head) {
		if bytes.Contains(head[:min(len(head), 64)], []byte("webm")) {
			return Result{Type: TypeWEBM, Kind: models.MediaKindVideo, MIME: "video/webm"}, nil
		}
		return Result{Type: TypeMKV, Kind: models.MediaKindVideo, MIME: "video/x-matroska"}, nil
	}

	return Result{}, ErrUnknownType
}

// MimeTypeFromHeader normalizes the client-declared content type, stripping
// parameters like charset.
func MimeTypeFromHeader(h textproto.MIMEHeader) string {
	declared := h.Get("Content-Type")
	if declared == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return mediaType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[0:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

// isoBrandType inspects the ISO base media "ftyp" box shared by MP4,
// QuickTime and AVIF.
func isoBrandType(head []byte) (Result, bool) {
	if len(head) < 12 || !bytes.Equal(head[4:8], []byte("ftyp")) {
		return Result{}, false
	}
	brand := string(head[8:12])
	switch {
	case brand == "avif" || brand == "avis":
		return Result{Type: TypeAVIF, Kind: models.MediaKindImage, MIME: "image/avif"}, true
	case brand == "qt  ":
		return Result{Type: TypeMOV, Kind: models.MediaKindVideo, MIME: "video/quicktime"}, true
	default:
		// isom, iso2, mp41, mp42, avc1, M4V and friends
		return Result{Type: TypeMP4, Kind: models.MediaKindVideo, MIME: "video/mp4"}, true
	}
}

func isEBML(head []byte) bool {
	return len(head) >= 4 && bytes.Equal(head[:4], []byte{0x1a, 0x45, 0xdf, 0xa3})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
