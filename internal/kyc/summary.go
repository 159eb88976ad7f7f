package kyc

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sub-score weights. They sum to 1; the photo carries the most judgement
// because it is the only artifact with face and liveness evidence.
var (
	photoWeight       = decimal.NewFromFloat(0.40)
	addressWeight     = decimal.NewFromFloat(0.15)
	identityDocWeight = decimal.NewFromFloat(0.30)
	photoDocWeight    = decimal.NewFromFloat(0.15)
)

// Summary is one full validation run: sub-results, the weighted overall
// score, the decision under the chosen policy, and the flattened issue list.
type Summary struct {
	Policy       Policy
	OverallScore decimal.Decimal
	Decision     string
	Issues       []string

	Photo       CheckResult
	Address     CheckResult
	IdentityDoc CheckResult
	PhotoDoc    CheckResult

	FaceMatchScore float64
	FaceMatched    bool
	FaceMatchKnown bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Combine folds the four sub-results into an overall score and decision.
// It is a pure function: the same inputs always produce the same summary,
// so re-running validation on unchanged artifacts is idempotent.
func Combine(policy Policy, photo, address, identityDoc, photoDoc CheckResult, gates Gates) Summary {
	gates.IdentityDoc = identityDoc

	overall := decimal.NewFromFloat(photo.Score).Mul(photoWeight).
		Add(decimal.NewFromFloat(address.Score).Mul(addressWeight)).
		Add(decimal.NewFromFloat(identityDoc.Score).Mul(identityDocWeight)).
		Add(decimal.NewFromFloat(photoDoc.Score).Mul(photoDocWeight))

	if overall.IsNegative() {
		overall = decimal.Zero
	} else if overall.GreaterThan(decimal.NewFromInt(100)) {
		overall = decimal.NewFromInt(100)
	}

	// Issue order is fixed: photo, address, identity document, photo
	// document. No deduplication.
	issues := []string{}
	issues = append(issues, photo.AllIssues()...)
	issues = append(issues, address.AllIssues()...)
	issues = append(issues, identityDoc.AllIssues()...)
	issues = append(issues, photoDoc.AllIssues()...)

	if policy == PolicyStrict && gates.FaceMatchKnown && !gates.FaceMatched {
		issues = append(issues, "Face in photo does not match identity document")
	}
	if policy == PolicyStrict && !gates.FaceMatchKnown {
		issues = append(issues, "Face match unavailable")
	}

	return Summary{
		Policy:         policy,
		OverallScore:   overall,
		Decision:       policy.decide(overall, gates),
		Issues:         issues,
		Photo:          photo,
		Address:        address,
		IdentityDoc:    identityDoc,
		PhotoDoc:       photoDoc,
		FaceMatched:    gates.FaceMatched,
		FaceMatchKnown: gates.FaceMatchKnown,
	}
}

// RenderNotes builds the human-readable breakdown stored on the application.
// It is presentation only; the numeric result lives in validation_results
// and is never recovered from this text.
func (s *Summary) RenderNotes() string {
	issuesText := "None - All checks passed"
	if len(s.Issues) > 0 {
		issuesText = strings.Join(s.Issues, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "AUTOMATED KYC VALIDATION RESULTS:\n")
	fmt.Fprintf(&b, "Overall Score: %s%%\n", s.OverallScore.StringFixed(2))
	fmt.Fprintf(&b, "Photo Score: %.2f%% (40%% weight)\n", s.Photo.Score)
	fmt.Fprintf(&b, "Address Score: %.2f%% (15%% weight)\n", s.Address.Score)
	fmt.Fprintf(&b, "Identity Document Score: %.2f%% (30%% weight)\n", s.IdentityDoc.Score)
	fmt.Fprintf(&b, "Photo Document Score: %.2f%% (15%% weight)\n", s.PhotoDoc.Score)
	fmt.Fprintf(&b, "Policy: %s\n", s.Policy)
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(s.Decision))
	fmt.Fprintf(&b, "Issues: %s\n", issuesText)
	// Lenient runs skip the face match; its gate fields are placeholders
	// there, not a measurement worth reporting.
	if s.Policy == PolicyStrict && s.FaceMatchKnown {
		fmt.Fprintf(&b, "Face Match Score: %.2f\n", s.FaceMatchScore)
	}
	if !s.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "Validation Time: %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Duration: %.2f seconds", s.FinishedAt.Sub(s.StartedAt).Seconds())
	}

	return b.String()
}
