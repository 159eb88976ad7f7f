package kyc

import (
	"fmt"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/imaging"
)

// photoValidityThreshold is deliberately low; the overall decision weights
// carry most of the judgement, the per-photo bar only filters out clear
// failures.
const photoValidityThreshold = 40

type PhotoValidator struct {
	analyzer *imaging.Analyzer
}

func NewPhotoValidator(analyzer *imaging.Analyzer) *PhotoValidator {
	return &PhotoValidator{analyzer: analyzer}
}

// Validate scores the customer photo. Scoring starts from 100 and subtracts
// penalties from three independent checks: face detection, liveness, and
// image quality.
func (v *PhotoValidator) Validate(photoPath string, isLiveCapture bool) CheckResult {
	if photoPath == "" {
		return CheckResult{
			Valid:  false,
			Score:  0,
			Issues: []string{"Photo not uploaded"},
		}
	}

	analysis, err := v.analyzer.Analyze(photoPath)
	if err != nil {
		return unknownResult(fmt.Sprintf("Photo analysis unavailable: %v", err))
	}

	score := 100.0
	issues := []string{}
	faceDetected := analysis.FaceDetected

	if !faceDetected {
		issues = append(issues, "No face detected in photo")
		score -= 40
	} else {
		if analysis.FaceConfidence < 70 {
			issues = append(issues, fmt.Sprintf("Low face detection confidence: %.0f%%", analysis.FaceConfidence))
			score -= 20
		} else if analysis.FaceConfidence >= 90 {
			score += 10
		}

		if !analysis.FaceCentered {
			issues = append(issues, "Face not centered in frame")
			score -= 10
		}

		if analysis.FaceRatio < 5 {
			issues = append(issues, "Face too small in frame")
			score -= 15
		} else if analysis.FaceRatio > 50 {
			issues = append(issues, "Face too large in frame")
			score -= 10
		}
	}

	if !analysis.IsLive {
		issues = append(issues, analysis.LivenessIssues...)
		score -= (100 - analysis.LivenessScore) * 0.3
	}

	if !analysis.IsGoodQuality {
		issues = append(issues, analysis.QualityIssues...)
		score -= (100 - analysis.QualityScore) * 0.3
	}

	if isLiveCapture {
		score += 5
	}

	score = clampScore(score)

	return CheckResult{
		// A photo without a detectable face can never pass, whatever the
		// remaining metrics add up to.
		Valid:  faceDetected && score >= photoValidityThreshold,
		Score:  score,
		Issues: issues,
	}
}
