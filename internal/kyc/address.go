package kyc

import (
	"strings"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

const addressValidityThreshold = 70

// roadwayKeywords are the address tokens compared between the stated
// address and the one recovered from the document by OCR.
var roadwayKeywords = []string{"street", "road", "lane", "avenue", "nagar", "colony"}

// ValidateAddress checks the customer's stated address for completeness and,
// when an OCR-extracted address is available, for gross mismatch with the
// document.
func ValidateAddress(customer *models.Customer, ocrAddress string) CheckResult {
	score := 100.0
	issues := []string{}

	address := strings.TrimSpace(customer.Address)
	if len(address) < 5 {
		issues = append(issues, "Address too short or missing")
		score -= 15
	}

	if strings.TrimSpace(customer.CityTown) == "" {
		issues = append(issues, "City/Town missing")
		score -= 10
	}

	pincode := strings.TrimSpace(customer.Pincode)
	if len(pincode) < 6 {
		issues = append(issues, "Pincode missing or invalid")
		score -= 10
	}

	if ocrAddress != "" && address != "" {
		stated := strings.ToLower(address)
		extracted := strings.ToLower(ocrAddress)

		matches := 0
		for _, keyword := range roadwayKeywords {
			if strings.Contains(stated, keyword) && strings.Contains(extracted, keyword) {
				matches++
			}
		}

		if matches == 0 && len(ocrAddress) > 10 {
			issues = append(issues, "Address mismatch with document")
			score -= 15
		}
	}

	score = clampScore(score)

	return CheckResult{
		Valid:  score >= addressValidityThreshold,
		Score:  score,
		Issues: issues,
	}
}
