package kyc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func perfect() CheckResult {
	return CheckResult{Valid: true, Score: 100}
}

func scored(score float64) CheckResult {
	return CheckResult{Valid: true, Score: score}
}

func openGates() Gates {
	return Gates{FaceMatched: true, FaceMatchKnown: true}
}

func TestCombine_WeightedScore(t *testing.T) {
	summary := Combine(PolicyLenient, scored(80), scored(60), scored(90), scored(70), openGates())

	// 80*0.40 + 60*0.15 + 90*0.30 + 70*0.15 = 78.5
	require.True(t, summary.OverallScore.Equal(decimal.NewFromFloat(78.5)),
		"expected 78.5, got %s", summary.OverallScore)
	require.Equal(t, DecisionApproved, summary.Decision)
}

func TestCombine_IsDeterministic(t *testing.T) {
	photo := CheckResult{Valid: true, Score: 72.5, Issues: []string{"Face not centered in frame"}}
	address := CheckResult{Valid: false, Score: 65, Issues: []string{"Pincode missing or invalid"}}
	identity := CheckResult{Valid: true, Score: 85}
	photoDoc := CheckResult{Valid: true, Score: 90}

	first := Combine(PolicyLenient, photo, address, identity, photoDoc, openGates())
	second := Combine(PolicyLenient, photo, address, identity, photoDoc, openGates())

	require.True(t, first.OverallScore.Equal(second.OverallScore))
	require.Equal(t, first.Decision, second.Decision)
	require.Equal(t, first.Issues, second.Issues)
}

func TestCombine_LenientThresholdBoundary(t *testing.T) {
	// All four sub-scores at 50 give exactly 50 overall, which passes.
	atThreshold := Combine(PolicyLenient, scored(50), scored(50), scored(50), scored(50), openGates())
	require.Equal(t, DecisionApproved, atThreshold.Decision)

	// 49.99 overall must reject; >= is not >.
	below := Combine(PolicyLenient, scored(49.99), scored(49.99), scored(49.99), scored(49.99), openGates())
	require.Equal(t, DecisionRejected, below.Decision)
}

func TestCombine_StrictThreshold(t *testing.T) {
	atThreshold := Combine(PolicyStrict, scored(70), scored(70), scored(70), scored(70), openGates())
	require.Equal(t, DecisionApproved, atThreshold.Decision)

	// 69 overall passes lenient but not strict.
	below := Combine(PolicyStrict, scored(69), scored(69), scored(69), scored(69), openGates())
	require.Equal(t, DecisionRejected, below.Decision)
}

func TestCombine_StrictRejectsOnFaceMismatch(t *testing.T) {
	gates := Gates{FaceMatched: false, FaceMatchKnown: true}

	summary := Combine(PolicyStrict, perfect(), perfect(), perfect(), perfect(), gates)

	require.Equal(t, DecisionRejected, summary.Decision)
	require.Contains(t, summary.Issues, "Face in photo does not match identity document")
}

func TestCombine_StrictRejectsWhenFaceMatchUnavailable(t *testing.T) {
	gates := Gates{FaceMatchKnown: false}

	summary := Combine(PolicyStrict, perfect(), perfect(), perfect(), perfect(), gates)

	require.Equal(t, DecisionRejected, summary.Decision)
	require.Contains(t, summary.Issues, "Face match unavailable")
}

func TestCombine_StrictRejectsOnIdentityCritical(t *testing.T) {
	identity := CheckResult{
		Valid:    false,
		Score:    95,
		Critical: []string{"Document type mismatch: Selected PAN but uploaded AADHAR"},
	}

	summary := Combine(PolicyStrict, perfect(), perfect(), identity, perfect(), openGates())

	require.Equal(t, DecisionRejected, summary.Decision)
}

func TestCombine_LenientIgnoresGates(t *testing.T) {
	gates := Gates{FaceMatched: false, FaceMatchKnown: false}

	summary := Combine(PolicyLenient, perfect(), perfect(), perfect(), perfect(), gates)

	require.Equal(t, DecisionApproved, summary.Decision)
	require.NotContains(t, summary.Issues, "Face match unavailable")
}

func TestCombine_IssueOrderIsFixed(t *testing.T) {
	photo := CheckResult{Score: 60, Issues: []string{"No face detected in photo"}}
	address := CheckResult{Score: 85, Issues: []string{"Address mismatch with document"}}
	identity := CheckResult{
		Score:    55,
		Issues:   []string{"Low OCR confidence: 60%"},
		Critical: []string{"Image too blurry to read"},
	}
	photoDoc := CheckResult{Score: 90}

	summary := Combine(PolicyLenient, photo, address, identity, photoDoc, openGates())

	require.Equal(t, []string{
		"No face detected in photo",
		"Address mismatch with document",
		"Image too blurry to read",
		"Low OCR confidence: 60%",
	}, summary.Issues)
}

func TestCombine_ClampsOverallScore(t *testing.T) {
	summary := Combine(PolicyLenient, scored(0), scored(0), scored(0), scored(0), openGates())
	require.True(t, summary.OverallScore.Equal(decimal.Zero))
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy("strict")
	require.NoError(t, err)
	require.Equal(t, PolicyStrict, policy)

	policy, err = ParsePolicy("lenient")
	require.NoError(t, err)
	require.Equal(t, PolicyLenient, policy)

	_, err = ParsePolicy("relaxed")
	require.Error(t, err)
}

func TestRenderNotes(t *testing.T) {
	summary := Combine(PolicyLenient, scored(80), scored(60), scored(90), scored(70), openGates())

	notes := summary.RenderNotes()

	require.Contains(t, notes, "Overall Score: 78.50%")
	require.Contains(t, notes, "Photo Score: 80.00% (40% weight)")
	require.Contains(t, notes, "Status: APPROVED")
	require.Contains(t, notes, "Issues: None - All checks passed")
}

func TestRenderNotes_FaceMatchOnlyUnderStrict(t *testing.T) {
	// Lenient runs never perform a face match, even when the gate fields
	// carry their auto-pass placeholders.
	lenient := Combine(PolicyLenient, perfect(), perfect(), perfect(), perfect(), openGates())
	require.NotContains(t, lenient.RenderNotes(), "Face Match Score")

	strict := Combine(PolicyStrict, perfect(), perfect(), perfect(), perfect(), openGates())
	strict.FaceMatchScore = 0.87
	require.Contains(t, strict.RenderNotes(), "Face Match Score: 0.87")
}

func TestCheckResult_AllIssuesCriticalsFirst(t *testing.T) {
	result := CheckResult{
		Issues:   []string{"Low resolution"},
		Critical: []string{"Image too dark to read"},
	}

	require.Equal(t, []string{"Image too dark to read", "Low resolution"}, result.AllIssues())
}
