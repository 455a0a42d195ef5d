package sniffer

import (
	"bytes"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peysphotos/api/internal/models"
)

func ftypHead(brand string) []byte {
	head := []byte{0x00, 0x00, 0x00, 0x18}
	head = append(head, []byte("ftyp")...)
	head = append(head, []byte(brand)...)
	head = append(head, make([]byte, 16)...)
	return head
}

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		typ  MediaType
		kind models.MediaKind
		mime string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG, models.MediaKindImage, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, TypePNG, models.MediaKindImage, "image/png"},
		{"gif", []byte("GIF89a......"), TypeGIF, models.MediaKindImage, "image/gif"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), TypeWEBP, models.MediaKindImage, "image/webp"},
		{"avif", ftypHead("avif"), TypeAVIF, models.MediaKindImage, "image/avif"},
		{"mp4 isom", ftypHead("isom"), TypeMP4, models.MediaKindVideo, "video/mp4"},
		{"mp4 mp42", ftypHead("mp42"), TypeMP4, models.MediaKindVideo, "video/mp4"},
		{"mov", ftypHead("qt  "), TypeMOV, models.MediaKindVideo, "video/quicktime"},
		{"webm", append([]byte{0x1a, 0x45, 0xdf, 0xa3}, []byte("....webm....")...), TypeWEBM, models.MediaKindVideo, "video/webm"},
		{"mkv", append([]byte{0x1a, 0x45, 0xdf, 0xa3}, []byte("matroska")...), TypeMKV, models.MediaKindVideo, "video/x-matroska"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.typ, result.Type)
			assert.Equal(t, tc.kind, result.Kind)
			assert.Equal(t, tc.mime, result.MIME)
		})
	}
}

func TestDetectHeadUnknown(t *testing.T) {
	_, err := DetectHead([]byte("definitely not media"))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DetectHead(nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDetectReturnsHead(t *testing.T) {
	payload := append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0xab}, 1024)...)

	result, head, err := Detect(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, TypeJPEG, result.Type)
	assert.Len(t, head, 512)
}

func TestMimeTypeFromHeader(t *testing.T) {
	h := textproto.MIMEHeader{}
	assert.Equal(t, "", MimeTypeFromHeader(h))

	h.Set("Content-Type", "image/png")
	assert.Equal(t, "image/png", MimeTypeFromHeader(h))

	h.Set("Content-Type", "video/mp4; charset=binary")
	assert.Equal(t, "video/mp4", MimeTypeFromHeader(h))

	h.Set("Content-Type", ";;;")
	assert.Equal(t, "", MimeTypeFromHeader(h))
}
