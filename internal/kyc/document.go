package kyc

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/imaging"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/ocr"
)

const documentValidityThreshold = 60

// File-size and image-quality limits for uploaded documents. The corruption
// threshold is a hard floor: nothing under 2000 bytes is a readable scan.
const (
	corruptFileSizeBytes = 2000
	maxFileSizeBytes     = 10 * 1024 * 1024

	criticalResolutionPixels = 20000
	lowResolutionPixels      = 100000
	criticalSharpness        = 50
	lowSharpness             = 100
	criticalDarkBrightness   = 30
	criticalOverexposure     = 225
	criticalContrast         = 15
)

var rgxDigits = regexp.MustCompile(`^\d+$`)

type DocumentValidator struct {
	analyzer *imaging.Analyzer
}

func NewDocumentValidator(analyzer *imaging.Analyzer) *DocumentValidator {
	return &DocumentValidator{analyzer: analyzer}
}

// Validate scores one uploaded document: file sanity, image quality when the
// file is an image, OCR completeness, and identity-number format checks for
// the declared document type. Any critical issue makes the result invalid
// regardless of the numeric score.
func (v *DocumentValidator) Validate(document *models.Document, declaredType string) CheckResult {
	if document == nil {
		return CheckResult{
			Valid:  false,
			Score:  0,
			Issues: []string{"Document not found"},
		}
	}

	info, err := os.Stat(document.FilePath)
	if err != nil {
		return CheckResult{
			Valid:  false,
			Score:  0,
			Issues: []string{"Document file not found"},
		}
	}

	score := 100.0
	issues := []string{}
	critical := []string{}
	unknown := false

	if info.Size() < corruptFileSizeBytes {
		critical = append(critical, "File too small (possibly corrupted)")
		score -= 50
	} else if info.Size() > maxFileSizeBytes {
		issues = append(issues, "Document file too large")
		score -= 10
	}

	if strings.HasPrefix(document.MimeType, "image/") {
		analysis, err := v.analyzer.Analyze(document.FilePath)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Document image analysis unavailable: %v", err))
			score -= 100 - unknownProviderScore
			unknown = true
		} else {
			score, issues, critical = v.applyImageQuality(analysis, score, issues, critical)
		}
	}

	payload, err := document.Ocr()
	if err != nil {
		critical = append(critical, "OCR data unreadable")
		score -= 30
	} else {
		score, issues, critical = applyOcrChecks(payload, declaredType, score, issues, critical)
	}

	score = clampScore(score)

	return CheckResult{
		Valid:    len(critical) == 0 && score >= documentValidityThreshold,
		Score:    score,
		Issues:   issues,
		Critical: critical,
		Unknown:  unknown,
	}
}

func (v *DocumentValidator) applyImageQuality(analysis *imaging.Analysis, score float64, issues, critical []string) (float64, []string, []string) {
	totalPixels := analysis.Width * analysis.Height

	if totalPixels < criticalResolutionPixels {
		critical = append(critical, "Resolution too low to read document")
		score -= 30
	} else if totalPixels < lowResolutionPixels {
		issues = append(issues, "Low resolution")
		score -= 10
	}

	if analysis.Sharpness < criticalSharpness {
		critical = append(critical, "Image too blurry to read")
		score -= 30
	} else if analysis.Sharpness < lowSharpness {
		issues = append(issues, "Image appears blurry")
		score -= 15
	}

	switch {
	case analysis.Brightness < criticalDarkBrightness:
		critical = append(critical, "Image too dark to read")
		score -= 30
	case analysis.Brightness > criticalOverexposure:
		critical = append(critical, "Image overexposed")
		score -= 30
	case analysis.Brightness < 50:
		issues = append(issues, "Image too dark")
		score -= 10
	case analysis.Brightness > 200:
		issues = append(issues, "Image too bright")
		score -= 10
	}

	if analysis.Contrast < criticalContrast {
		critical = append(critical, "Contrast too low to read document")
		score -= 30
	}

	return score, issues, critical
}

func applyOcrChecks(payload *models.OcrPayload, declaredType string, score float64, issues, critical []string) (float64, []string, []string) {
	if payload == nil {
		critical = append(critical, "OCR data missing")
		score -= 30
		return score, issues, critical
	}

	switch {
	case !payload.IsValid:
		critical = append(critical, "OCR validation failed")
		score -= 30
	case payload.Confidence < 50:
		critical = append(critical, fmt.Sprintf("OCR confidence too low: %.0f%%", payload.Confidence))
		score -= 30
	case payload.Confidence < 70:
		issues = append(issues, fmt.Sprintf("Low OCR confidence: %.0f%%", payload.Confidence))
		score -= 15
	}

	for _, field := range payload.MissingFields {
		score -= 5
		if strings.Contains(field, "Number") {
			score -= 10
		}
		issues = append(issues, fmt.Sprintf("Missing field: %s", field))
	}

	if declaredType != "" && payload.DetectedType != "" && !strings.EqualFold(declaredType, payload.DetectedType) {
		critical = append(critical, fmt.Sprintf("Document type mismatch: Selected %s but uploaded %s",
			strings.ToUpper(declaredType), strings.ToUpper(payload.DetectedType)))
		score -= 30
	}

	switch strings.ToUpper(declaredType) {
	case ocr.DocumentTypePan:
		if pan, ok := payload.ExtractedFields["pan_number"]; ok && len(pan) != 10 {
			critical = append(critical, "Invalid PAN number format")
			score -= 30
		}
	case ocr.DocumentTypeAadhar:
		if aadhar, ok := payload.ExtractedFields["aadhar_number"]; ok && (len(aadhar) != 12 || !rgxDigits.MatchString(aadhar)) {
			critical = append(critical, "Invalid Aadhar number format")
			score -= 30
		}
	}

	return score, issues, critical
}
