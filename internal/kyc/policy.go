package kyc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy selects the approval rule applied to a combined validation result.
// The two policies differ materially and neither supersedes the other, so
// the caller must choose one explicitly.
type Policy string

const (
	// PolicyLenient approves any application whose overall score reaches 50.
	PolicyLenient Policy = "lenient"

	// PolicyStrict raises the bar to 70 and adds hard gates: a failed or
	// unavailable face match, or any critical issue on the identity
	// document, rejects the application outright.
	PolicyStrict Policy = "strict"
)

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

var (
	lenientThreshold = decimal.NewFromInt(50)
	strictThreshold  = decimal.NewFromInt(70)
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLenient, PolicyStrict:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown kyc policy %q", s)
	}
}

// Gates carries the strict policy's hard-gate inputs.
type Gates struct {
	FaceMatched    bool
	FaceMatchKnown bool
	IdentityDoc    CheckResult
}

func (p Policy) decide(overall decimal.Decimal, gates Gates) string {
	switch p {
	case PolicyStrict:
		if !gates.FaceMatchKnown || !gates.FaceMatched {
			return DecisionRejected
		}
		if len(gates.IdentityDoc.Critical) > 0 {
			return DecisionRejected
		}
		if overall.GreaterThanOrEqual(strictThreshold) {
			return DecisionApproved
		}
		return DecisionRejected
	default:
		if overall.GreaterThanOrEqual(lenientThreshold) {
			return DecisionApproved
		}
		return DecisionRejected
	}
}
