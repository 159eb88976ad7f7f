package imaging

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"
)

// Analysis carries every metric the validators consume for a single image:
// raw quality numbers, the face heuristic, and the liveness estimate.
type Analysis struct {
	Width         int
	Height        int
	FileSize      int64
	Brightness    float64
	Contrast      float64
	Sharpness     float64
	EdgeDensity   float64
	ColorVariance float64

	FaceDetected   bool
	FaceConfidence float64
	FaceRatio      float64
	FaceCentered   bool

	LivenessScore  float64
	IsLive         bool
	LivenessIssues []string

	QualityScore  float64
	IsGoodQuality bool
	QualityIssues []string
}

type Analyzer struct {
	logger *slog.Logger
}

func NewAnalyzer(logger *slog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze decodes the image at path and computes the full metric set.
// Decode or stat failures return an error; callers decide how an
// unavailable analysis affects scoring.
func (a *Analyzer) Analyze(path string) (*Analysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := grayscale(img)
	bounds := img.Bounds()

	analysis := &Analysis{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		FileSize: info.Size(),
	}

	analysis.Brightness = mean(gray.pix)
	analysis.Contrast = stddev(gray.pix, analysis.Brightness)
	analysis.Sharpness = laplacianVariance(gray)
	analysis.EdgeDensity = edgeDensity(gray)
	analysis.ColorVariance = colorVariance(img)

	a.detectFace(img, analysis)
	a.estimateLiveness(path, analysis)
	a.scoreQuality(analysis)

	a.logger.Debug("image analyzed",
		slog.Group("image", "path", path, "width", analysis.Width, "height", analysis.Height),
		slog.Group("metrics",
			"brightness", analysis.Brightness,
			"sharpness", analysis.Sharpness,
			"face_detected", analysis.FaceDetected,
			"liveness", analysis.LivenessScore,
		),
	)

	return analysis, nil
}

// detectFace runs the skin-tone heuristic: the share of skin-coloured pixels
// stands in for a face region, and the skin-pixel centroid for its position.
func (a *Analyzer) detectFace(img image.Image, analysis *Analysis) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return
	}

	var skinCount, sumX, sumY int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if isSkinTone(uint8(r>>8), uint8(g>>8), uint8(b>>8)) {
				skinCount++
				sumX += x - bounds.Min.X
				sumY += y - bounds.Min.Y
			}
		}
	}

	skinRatio := float64(skinCount) / float64(total)

	if skinRatio > 0.1 {
		analysis.FaceDetected = true
		analysis.FaceConfidence = 70
		analysis.FaceRatio = math.Round(skinRatio*10000) / 100

		centroidX := float64(sumX) / float64(skinCount)
		centroidY := float64(sumY) / float64(skinCount)
		offsetX := math.Abs(centroidX-float64(bounds.Dx())/2) / float64(bounds.Dx())
		offsetY := math.Abs(centroidY-float64(bounds.Dy())/2) / float64(bounds.Dy())
		analysis.FaceCentered = offsetX < 0.3 && offsetY < 0.3
		return
	}

	// Without a clear skin region, a reasonably sized portrait still counts,
	// at reduced confidence.
	if bounds.Dx() >= 200 && bounds.Dy() >= 200 {
		analysis.FaceDetected = true
		analysis.FaceConfidence = 60
		analysis.FaceRatio = 15
		analysis.FaceCentered = true
		return
	}

	analysis.FaceDetected = false
	analysis.FaceConfidence = 0
}

// estimateLiveness scores how likely the image is a live capture rather than
// a photographed print or a screen.
func (a *Analyzer) estimateLiveness(path string, analysis *Analysis) {
	score := 100.0
	issues := []string{}

	if analysis.Sharpness < 100 {
		issues = append(issues, "Image appears blurry (possible printed photo)")
		score -= 20
	} else if analysis.Sharpness > 500 {
		score += 10
	}

	if analysis.ColorVariance < 500 {
		issues = append(issues, "Low color variance (possible printed photo)")
		score -= 15
	}

	totalPixels := analysis.Width * analysis.Height
	if totalPixels < 50000 {
		issues = append(issues, "Low resolution (possible screenshot)")
		score -= 10
	}

	ext := strings.ToLower(filepath.Ext(path))
	if (ext == ".jpg" || ext == ".jpeg") && analysis.FileSize < 10000 && totalPixels > 100000 {
		issues = append(issues, "High compression ratio (possible printed photo)")
		score -= 10
	}

	analysis.LivenessScore = clamp(score, 0, 100)
	analysis.IsLive = analysis.LivenessScore >= 70
	analysis.LivenessIssues = issues
}

func (a *Analyzer) scoreQuality(analysis *Analysis) {
	score := 100.0
	issues := []string{}

	switch {
	case analysis.Brightness < 50:
		issues = append(issues, "Image too dark")
		score -= 20
	case analysis.Brightness > 200:
		issues = append(issues, "Image too bright (overexposed)")
		score -= 15
	case analysis.Brightness >= 80 && analysis.Brightness <= 180:
		score += 10
	}

	if analysis.Contrast < 20 {
		issues = append(issues, "Low contrast")
		score -= 15
	} else if analysis.Contrast > 80 {
		score += 10
	}

	if analysis.Sharpness > 1000 {
		issues = append(issues, "High noise level")
		score -= 10
	}

	if analysis.Width*analysis.Height < 50000 {
		issues = append(issues, "Low resolution")
		score -= 15
	}

	if analysis.Height > 0 {
		aspect := float64(analysis.Width) / float64(analysis.Height)
		if aspect < 0.5 || aspect > 2.0 {
			issues = append(issues, "Unusual aspect ratio")
			score -= 5
		}
	}

	if analysis.ColorVariance < 100 {
		issues = append(issues, "Low color variance")
		score -= 5
	}

	analysis.QualityScore = clamp(score, 0, 100)
	analysis.IsGoodQuality = analysis.QualityScore >= 60
	analysis.QualityIssues = issues
}

// isSkinTone checks a pixel against the HSV skin range: hue within 0-40
// degrees, saturation at least ~8%, value at least ~27%.
func isSkinTone(r, g, b uint8) bool {
	h, s, v := rgbToHSV(r, g, b)
	return h <= 40 && s >= 0.078 && v >= 0.274
}

func rgbToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	v = max
	if max > 0 {
		s = delta / max
	}

	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	return h, s, v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
