package imaging

import (
	"fmt"
	"image"
	"math"
	"os"
)

// MatchThreshold is the minimum combined similarity for two images to count
// as showing the same face.
const MatchThreshold = 0.6

const (
	matchSize      = 64
	histogramBins  = 32
	templateWeight = 0.7
	histWeight     = 0.3
)

// FaceMatch compares the customer photo with the portrait on the identity
// document. The combined score blends a resized template correlation with a
// luminance-histogram correlation.
func (a *Analyzer) FaceMatch(photoPath, documentPath string) (float64, bool, error) {
	photo, err := loadGray(photoPath)
	if err != nil {
		return 0, false, fmt.Errorf("load photo: %w", err)
	}

	document, err := loadGray(documentPath)
	if err != nil {
		return 0, false, fmt.Errorf("load document: %w", err)
	}

	template := templateCorrelation(resizeGray(photo, matchSize), resizeGray(document, matchSize))
	hist := histogramCorrelation(histogram(photo), histogram(document))

	score := templateWeight*template + histWeight*hist
	return score, score >= MatchThreshold, nil
}

func loadGray(path string) (*grayImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	return grayscale(img), nil
}

// resizeGray does nearest-neighbour downsampling to a square of side px.
func resizeGray(g *grayImage, px int) *grayImage {
	out := &grayImage{
		pix:    make([]float64, px*px),
		width:  px,
		height: px,
	}

	for y := 0; y < px; y++ {
		for x := 0; x < px; x++ {
			srcX := x * g.width / px
			srcY := y * g.height / px
			out.pix[y*px+x] = g.at(srcX, srcY)
		}
	}

	return out
}

// templateCorrelation is the normalized cross-correlation of two equally
// sized luminance buffers, rescaled from [-1,1] to [0,1].
func templateCorrelation(a, b *grayImage) float64 {
	meanA := mean(a.pix)
	meanB := mean(b.pix)

	var num, denA, denB float64
	for i := range a.pix {
		da := a.pix[i] - meanA
		db := b.pix[i] - meanB
		num += da * db
		denA += da * da
		denB += db * db
	}

	if denA == 0 || denB == 0 {
		return 0
	}

	return (num/math.Sqrt(denA*denB) + 1) / 2
}

func histogram(g *grayImage) []float64 {
	bins := make([]float64, histogramBins)
	for _, p := range g.pix {
		idx := int(p) * histogramBins / 256
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		bins[idx]++
	}

	total := float64(len(g.pix))
	for i := range bins {
		bins[i] /= total
	}
	return bins
}

// histogramCorrelation is the Pearson correlation between two normalized
// histograms, rescaled to [0,1].
func histogramCorrelation(a, b []float64) float64 {
	meanA := mean(a)
	meanB := mean(b)

	var num, denA, denB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		denA += da * da
		denB += db * db
	}

	if denA == 0 || denB == 0 {
		return 0
	}

	return (num/math.Sqrt(denA*denB) + 1) / 2
}
