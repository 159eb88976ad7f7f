package kyc

// CheckResult is the outcome of one sub-validator. Critical issues force
// invalidity no matter what the numeric score says. Unknown marks results
// produced when a provider failed; the score carried there is a fixed
// conservative value, never an optimistic pass.
type CheckResult struct {
	Valid    bool
	Score    float64
	Issues   []string
	Critical []string
	Unknown  bool
}

// unknownProviderScore is assigned when image analysis or OCR is
// unavailable. It sits below every validity threshold so an infrastructure
// outage reads as a failure needing review, not a soft pass.
const unknownProviderScore = 25

func unknownResult(issue string) CheckResult {
	return CheckResult{
		Valid:   false,
		Score:   unknownProviderScore,
		Issues:  []string{issue},
		Unknown: true,
	}
}

// AllIssues returns critical and regular issues in reporting order,
// criticals first.
func (c CheckResult) AllIssues() []string {
	out := make([]string, 0, len(c.Critical)+len(c.Issues))
	out = append(out, c.Critical...)
	out = append(out, c.Issues...)
	return out
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
