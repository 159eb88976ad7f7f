package ocr

import (
	"regexp"
	"strings"
)

// Document types the extractor understands.
const (
	DocumentTypePan    = "PAN"
	DocumentTypeAadhar = "AADHAR"
)

// Result is the structured outcome of extracting and validating one document.
type Result struct {
	IsValid           bool              `json:"is_valid"`
	Confidence        float64           `json:"confidence"`
	CompletenessScore float64           `json:"completeness_score"`
	DetectedType      string            `json:"detected_type,omitempty"`
	MissingFields     []string          `json:"missing_fields,omitempty"`
	ExtractedFields   map[string]string `json:"extracted_fields,omitempty"`
}

// Engine turns a stored file into raw text. Implementations wrap whatever
// OCR backend is available; the stub engine keeps development deterministic.
type Engine interface {
	ExtractText(filePath, mimeType string) (string, error)
}

var (
	rgxAadharNumber = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	rgxPanNumber    = regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`)
	rgxName         = regexp.MustCompile(`(?i)Name[\s:]+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)+)`)
	rgxDob          = regexp.MustCompile(`\b\d{2}[/-]\d{2}[/-]\d{4}\b`)
	rgxAddress      = regexp.MustCompile(`(?i)Address[\s:]+(.+)`)
	rgxWhitespace   = regexp.MustCompile(`\s`)
)

type Processor struct {
	engine Engine
}

func NewProcessor(engine Engine) *Processor {
	return &Processor{engine: engine}
}

// Process extracts text from the file and validates it against the declared
// document type.
func (p *Processor) Process(filePath, mimeType, declaredType string) (*Result, error) {
	text, err := p.engine.ExtractText(filePath, mimeType)
	if err != nil {
		return nil, err
	}

	return Validate(text, declaredType), nil
}

// DetectDocumentType classifies extracted text as a PAN card or an Aadhar
// card from its keywords and number formats. Empty string means undetermined.
func DetectDocumentType(text string) string {
	upper := strings.ToUpper(text)

	if strings.Contains(upper, "AADHAAR") || strings.Contains(upper, "AADHAR") {
		return DocumentTypeAadhar
	}
	if strings.Contains(upper, "INCOME TAX") || strings.Contains(upper, "PERMANENT ACCOUNT") {
		return DocumentTypePan
	}
	if rgxPanNumber.MatchString(upper) {
		return DocumentTypePan
	}
	if rgxAadharNumber.MatchString(text) {
		return DocumentTypeAadhar
	}

	return ""
}

// Validate scores the extracted text for the declared document type. Field
// extraction is cumulative: each recovered field adds to the completeness
// score, and 70 is the validity bar.
func Validate(text, declaredType string) *Result {
	switch strings.ToUpper(declaredType) {
	case DocumentTypeAadhar:
		return validateAadhar(text)
	case DocumentTypePan:
		return validatePan(text)
	default:
		return validateGeneric(text)
	}
}

func validateAadhar(text string) *Result {
	result := &Result{
		DetectedType:    DetectDocumentType(text),
		ExtractedFields: map[string]string{},
		MissingFields:   []string{},
	}

	if m := rgxAadharNumber.FindString(text); m != "" {
		result.ExtractedFields["aadhar_number"] = rgxWhitespace.ReplaceAllString(m, "")
		result.CompletenessScore += 30
	}

	if m := rgxName.FindStringSubmatch(text); m != nil {
		result.ExtractedFields["name"] = strings.TrimSpace(m[1])
		result.CompletenessScore += 25
	}

	if m := rgxDob.FindString(text); m != "" {
		result.ExtractedFields["dob"] = m
		result.CompletenessScore += 25
	}

	if m := rgxAddress.FindStringSubmatch(text); m != nil {
		result.ExtractedFields["address"] = strings.TrimSpace(m[1])
		result.CompletenessScore += 20
	}

	finishResult(result, []requiredField{
		{"aadhar_number", "Aadhar Number"},
		{"name", "Name"},
		{"dob", "Date of Birth"},
	})

	return result
}

func validatePan(text string) *Result {
	result := &Result{
		DetectedType:    DetectDocumentType(text),
		ExtractedFields: map[string]string{},
		MissingFields:   []string{},
	}

	if m := rgxPanNumber.FindString(strings.ToUpper(text)); m != "" {
		result.ExtractedFields["pan_number"] = m
		result.CompletenessScore += 40
	}

	if m := rgxName.FindStringSubmatch(text); m != nil {
		result.ExtractedFields["name"] = strings.TrimSpace(m[1])
		result.CompletenessScore += 30
	}

	if m := rgxDob.FindString(text); m != "" {
		result.ExtractedFields["dob"] = m
		result.CompletenessScore += 30
	}

	finishResult(result, []requiredField{
		{"pan_number", "PAN Number"},
		{"name", "Name"},
		{"dob", "Date of Birth"},
	})

	return result
}

// validateGeneric covers documents with no declared type: any substantive
// amount of text passes, scored by length.
func validateGeneric(text string) *Result {
	score := float64(len(text)) / 2
	if score > 100 {
		score = 100
	}

	return &Result{
		IsValid:           len(text) > 50,
		Confidence:        score,
		CompletenessScore: score,
		DetectedType:      DetectDocumentType(text),
		ExtractedFields:   map[string]string{},
		MissingFields:     []string{},
	}
}

type requiredField struct {
	key   string
	label string
}

func finishResult(result *Result, requiredFields []requiredField) {
	if result.CompletenessScore >= 70 {
		result.IsValid = true
		result.Confidence = result.CompletenessScore
		if result.Confidence > 100 {
			result.Confidence = 100
		}
		return
	}

	for _, field := range requiredFields {
		if _, ok := result.ExtractedFields[field.key]; !ok {
			result.MissingFields = append(result.MissingFields, field.label)
		}
	}
	result.Confidence = result.CompletenessScore
}
