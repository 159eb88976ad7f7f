package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StubEngine stands in for a real OCR backend in development and tests.
// Output is deterministic per file name so repeated validation runs of the
// same document always score identically.
type StubEngine struct{}

func NewStubEngine() *StubEngine {
	return &StubEngine{}
}

func (e *StubEngine) ExtractText(filePath, mimeType string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return "", nil
	}

	name := strings.ToLower(filepath.Base(filePath))
	if strings.Contains(name, "pan") {
		return stubPanText, nil
	}

	return stubAadharText, nil
}

const stubAadharText = `GOVERNMENT OF INDIA
AADHAAR

Name: John Doe
Date of Birth: 01/01/1990
Address: 123 Main Street, City, State - 123456
Aadhaar No: 1234 5678 9012`

const stubPanText = `INCOME TAX DEPARTMENT
GOVT. OF INDIA
PERMANENT ACCOUNT NUMBER CARD

Name: John Doe
Date of Birth: 01/01/1990
ABCDE1234F`
