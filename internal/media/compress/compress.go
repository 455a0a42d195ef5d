package compress

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	redraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type Options struct {
	// TargetBytes is the byte budget the result should fit under.
	TargetBytes int64
	// MaxDimension bounds the longest side in pixels.
	MaxDimension int
	StartQuality int
	QualityStep  int
	QualityFloor int
}

type Result struct {
	Data    []byte
	Width   int
	Height  int
	Quality int
	// Compressed is false when the input already fit the budget and was
	// passed through untouched.
	Compressed bool
}

// Fit re-encodes an oversized image to fit under opts.TargetBytes, capping the
// longest side at opts.MaxDimension and stepping JPEG quality down until the
// budget is met or the quality floor is hit, at which point the best attempt
// is returned regardless of size. Inputs already under budget and within the
// dimension bound pass through unchanged.
func Fit(data []byte, opts Options) (Result, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode config: %w", err)
	}

	if int64(len(data)) <= opts.TargetBytes && longest(cfg.Width, cfg.Height) <= opts.MaxDimension {
		return Result{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}

	if longest(cfg.Width, cfg.Height) > opts.MaxDimension {
		src = scaleToLongest(src, opts.MaxDimension)
	}
	bounds := src.Bounds()

	quality := opts.StartQuality
	var best []byte
	for {
		encoded, err := encodeJPEG(src, quality)
		if err != nil {
			return Result{}, fmt.Errorf("encode q%d: %w", quality, err)
		}
		if best == nil || len(encoded) < len(best) {
			best = encoded
		}
		if int64(len(encoded)) <= opts.TargetBytes || quality-opts.QualityStep < opts.QualityFloor {
			return Result{
				Data:       best,
				Width:      bounds.Dx(),
				Height:     bounds.Dy(),
				Quality:    quality,
				Compressed: true,
			}, nil
		}
		quality -= opts.QualityStep
	}
}

// Dimensions probes pixel size without a full decode.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func scaleToLongest(src image.Image, maxDim int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var dw, dh int
	if w >= h {
		dw = maxDim
		dh = h * maxDim / w
	} else {
		dh = maxDim
		dw = w * maxDim / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	redraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, redraw.Over, nil)
	return dst
}

func encodeJPEG(src image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func longest(w, h int) int {
	if w > h {
		return w
	}
	return h
}
