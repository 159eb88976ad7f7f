package imaging

import (
	"image"
	"math"
)

// grayImage is a flat luminance buffer; the Laplacian and edge passes work
// on this rather than re-reading the decoded image per pixel.
type grayImage struct {
	pix    []float64
	width  int
	height int
}

func (g *grayImage) at(x, y int) float64 {
	return g.pix[y*g.width+x]
}

func grayscale(img image.Image) *grayImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	gray := &grayImage{
		pix:    make([]float64, w*h),
		width:  w,
		height: h,
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray.pix[y*w+x] = lum
		}
	}

	return gray
}

func mean(pix []float64) float64 {
	if len(pix) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pix {
		sum += p
	}
	return sum / float64(len(pix))
}

func stddev(pix []float64, mean float64) float64 {
	if len(pix) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pix {
		d := p - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pix)))
}

// laplacianVariance applies the 4-neighbour Laplacian kernel and returns the
// variance of the response. Low values mean a blurry image.
func laplacianVariance(g *grayImage) float64 {
	if g.width < 3 || g.height < 3 {
		return 0
	}

	responses := make([]float64, 0, (g.width-2)*(g.height-2))
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			lap := g.at(x-1, y) + g.at(x+1, y) + g.at(x, y-1) + g.at(x, y+1) - 4*g.at(x, y)
			responses = append(responses, lap)
		}
	}

	m := mean(responses)
	var sum float64
	for _, r := range responses {
		d := r - m
		sum += d * d
	}
	return sum / float64(len(responses))
}

// edgeDensity is the fraction of pixels whose Sobel gradient magnitude
// exceeds a fixed threshold.
func edgeDensity(g *grayImage) float64 {
	if g.width < 3 || g.height < 3 {
		return 0
	}

	const threshold = 100.0
	var edges int
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			gx := g.at(x+1, y-1) + 2*g.at(x+1, y) + g.at(x+1, y+1) -
				g.at(x-1, y-1) - 2*g.at(x-1, y) - g.at(x-1, y+1)
			gy := g.at(x-1, y+1) + 2*g.at(x, y+1) + g.at(x+1, y+1) -
				g.at(x-1, y-1) - 2*g.at(x, y-1) - g.at(x+1, y-1)
			if math.Sqrt(gx*gx+gy*gy) > threshold {
				edges++
			}
		}
	}

	return float64(edges) / float64((g.width-2)*(g.height-2))
}

// colorVariance is the variance across all channel samples, a stand-in for
// colour richness. Printed photos and screenshots tend to score low.
func colorVariance(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	samples := make([]float64, 0, w*h*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			samples = append(samples, float64(r>>8), float64(g>>8), float64(b>>8))
		}
	}

	m := mean(samples)
	var sum float64
	for _, s := range samples {
		d := s - m
		sum += d * d
	}
	return sum / float64(len(samples))
}
