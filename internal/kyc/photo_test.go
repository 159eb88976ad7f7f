package kyc

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/imaging"
	"github.com/stretchr/testify/require"
)

func TestPhotoValidator_MissingPhoto(t *testing.T) {
	v := NewPhotoValidator(nil)

	result := v.Validate("", true)

	require.False(t, result.Valid)
	require.Equal(t, 0.0, result.Score)
	require.Equal(t, []string{"Photo not uploaded"}, result.Issues)
}

// facelessImage paints a sharp blue/orange checkerboard: no skin tones and
// too small for the portrait fallback, so no face is found, while brightness,
// contrast, sharpness and colour variance all score well.
func facelessImage(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 180, 180))
	a := color.RGBA{0, 100, 200, 255}
	b := color.RGBA{200, 150, 0, 255}
	for y := 0; y < 180; y++ {
		for x := 0; x < 180; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "no-face.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
	return path
}

func TestPhotoValidator_NoFaceIsInvalidDespiteStrongMetrics(t *testing.T) {
	analyzer := imaging.NewAnalyzer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	v := NewPhotoValidator(analyzer)

	result := v.Validate(facelessImage(t), true)

	require.False(t, result.Valid)
	require.Contains(t, result.Issues, "No face detected in photo")

	// The remaining metrics still count toward the score; only validity is
	// pinned to face detection.
	require.GreaterOrEqual(t, result.Score, float64(photoValidityThreshold))
}
