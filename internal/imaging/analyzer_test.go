package imaging

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testAnalyzer() *Analyzer {
	return NewAnalyzer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func savePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
	return path
}

func uniformImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// portraitImage paints a skin-toned block in the middle of a dark background,
// roughly what the face heuristic expects of a centered portrait.
func portraitImage(width, height int) *image.RGBA {
	img := uniformImage(width, height, color.RGBA{30, 30, 60, 255})

	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.RGBA{224, 172, 105, 255})
		}
	}
	return img
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := testAnalyzer().Analyze("/nonexistent/photo.png")
	require.Error(t, err)
}

func TestAnalyze_UndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := testAnalyzer().Analyze(path)
	require.Error(t, err)
}

func TestAnalyze_DetectsCenteredFace(t *testing.T) {
	path := savePNG(t, "portrait.png", portraitImage(400, 400))

	analysis, err := testAnalyzer().Analyze(path)
	require.NoError(t, err)

	require.True(t, analysis.FaceDetected)
	require.Equal(t, 70.0, analysis.FaceConfidence)
	require.True(t, analysis.FaceCentered)
	require.Greater(t, analysis.FaceRatio, 5.0)
}

func TestAnalyze_LargeImageWithoutSkinStillCounts(t *testing.T) {
	path := savePNG(t, "gray.png", uniformImage(300, 300, color.RGBA{128, 128, 128, 255}))

	analysis, err := testAnalyzer().Analyze(path)
	require.NoError(t, err)

	require.True(t, analysis.FaceDetected)
	require.Equal(t, 60.0, analysis.FaceConfidence)
}

func TestAnalyze_SmallImageWithoutSkinHasNoFace(t *testing.T) {
	path := savePNG(t, "tiny.png", uniformImage(100, 100, color.RGBA{10, 10, 10, 255}))

	analysis, err := testAnalyzer().Analyze(path)
	require.NoError(t, err)

	require.False(t, analysis.FaceDetected)
	require.Equal(t, 0.0, analysis.FaceConfidence)
}

func TestAnalyze_DarkImageQuality(t *testing.T) {
	path := savePNG(t, "dark.png", uniformImage(300, 300, color.RGBA{10, 10, 10, 255}))

	analysis, err := testAnalyzer().Analyze(path)
	require.NoError(t, err)

	require.Less(t, analysis.Brightness, 50.0)
	require.Contains(t, analysis.QualityIssues, "Image too dark")
	require.Contains(t, analysis.QualityIssues, "Low contrast")
}

func TestAnalyze_UniformImageFailsLiveness(t *testing.T) {
	path := savePNG(t, "flat.png", uniformImage(300, 300, color.RGBA{128, 128, 128, 255}))

	analysis, err := testAnalyzer().Analyze(path)
	require.NoError(t, err)

	// A flat frame has no sharpness and no color variance; both are
	// printed-photo signals.
	require.False(t, analysis.IsLive)
	require.Contains(t, analysis.LivenessIssues, "Image appears blurry (possible printed photo)")
	require.Contains(t, analysis.LivenessIssues, "Low color variance (possible printed photo)")
}

func TestFaceMatch_SameImageMatches(t *testing.T) {
	path := savePNG(t, "portrait.png", portraitImage(400, 400))

	score, matched, err := testAnalyzer().FaceMatch(path, path)
	require.NoError(t, err)

	require.True(t, matched)
	require.Greater(t, score, 0.9)
}

func TestFaceMatch_DifferentImagesScoreLower(t *testing.T) {
	portrait := savePNG(t, "portrait.png", portraitImage(400, 400))
	flat := savePNG(t, "flat.png", uniformImage(400, 400, color.RGBA{240, 240, 240, 255}))

	score, _, err := testAnalyzer().FaceMatch(portrait, flat)
	require.NoError(t, err)

	self, _, err := testAnalyzer().FaceMatch(portrait, portrait)
	require.NoError(t, err)

	require.Less(t, score, self)
}

func TestFaceMatch_MissingInput(t *testing.T) {
	path := savePNG(t, "portrait.png", portraitImage(400, 400))

	_, _, err := testAnalyzer().FaceMatch(path, "/nonexistent/doc.png")
	require.Error(t, err)
}
