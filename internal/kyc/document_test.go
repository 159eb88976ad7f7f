package kyc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, make([]byte, size), 0o644)
	require.NoError(t, err)

	return path
}

func ocrPayload(t *testing.T, payload *models.OcrPayload) []byte {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return data
}

func validPanPayload(t *testing.T) []byte {
	return ocrPayload(t, &models.OcrPayload{
		IsValid:      true,
		Confidence:   100,
		DetectedType: "PAN",
		ExtractedFields: map[string]string{
			"pan_number": "ABCDE1234F",
			"name":       "John Doe",
			"dob":        "01/01/1990",
		},
	})
}

func TestDocumentValidator_NilDocument(t *testing.T) {
	v := NewDocumentValidator(nil)

	result := v.Validate(nil, "PAN")

	require.False(t, result.Valid)
	require.Equal(t, 0.0, result.Score)
	require.Contains(t, result.Issues, "Document not found")
}

func TestDocumentValidator_MissingFile(t *testing.T) {
	v := NewDocumentValidator(nil)

	result := v.Validate(&models.Document{FilePath: "/nonexistent/scan.pdf"}, "PAN")

	require.False(t, result.Valid)
	require.Contains(t, result.Issues, "Document file not found")
}

func TestDocumentValidator_CorruptedFileIsCritical(t *testing.T) {
	v := NewDocumentValidator(nil)

	document := &models.Document{
		FilePath:         writeTempFile(t, "scan.pdf", 1500),
		MimeType:         "application/pdf",
		OcrExtractedData: validPanPayload(t),
	}

	result := v.Validate(document, "PAN")

	require.False(t, result.Valid)
	require.Contains(t, result.Critical, "File too small (possibly corrupted)")
	require.Equal(t, 50.0, result.Score)
}

func TestDocumentValidator_CleanDocumentPasses(t *testing.T) {
	v := NewDocumentValidator(nil)

	document := &models.Document{
		FilePath:         writeTempFile(t, "pan.pdf", 50_000),
		MimeType:         "application/pdf",
		OcrExtractedData: validPanPayload(t),
	}

	result := v.Validate(document, "PAN")

	require.True(t, result.Valid)
	require.Equal(t, 100.0, result.Score)
	require.Empty(t, result.Critical)
}

func TestDocumentValidator_TypeMismatchIsCritical(t *testing.T) {
	v := NewDocumentValidator(nil)

	document := &models.Document{
		FilePath: writeTempFile(t, "card.pdf", 50_000),
		MimeType: "application/pdf",
		OcrExtractedData: ocrPayload(t, &models.OcrPayload{
			IsValid:      true,
			Confidence:   95,
			DetectedType: "AADHAR",
			ExtractedFields: map[string]string{
				"aadhar_number": "123456789012",
			},
		}),
	}

	result := v.Validate(document, "PAN")

	require.False(t, result.Valid)
	require.Contains(t, result.Critical, "Document type mismatch: Selected PAN but uploaded AADHAR")
}

func TestDocumentValidator_MissingOcrDataIsCritical(t *testing.T) {
	v := NewDocumentValidator(nil)

	document := &models.Document{
		FilePath: writeTempFile(t, "scan.pdf", 50_000),
		MimeType: "application/pdf",
	}

	result := v.Validate(document, "PAN")

	require.False(t, result.Valid)
	require.Contains(t, result.Critical, "OCR data missing")
}

func TestDocumentValidator_LowOcrConfidence(t *testing.T) {
	v := NewDocumentValidator(nil)

	document := &models.Document{
		FilePath: writeTempFile(t, "scan.pdf", 50_000),
		MimeType: "application/pdf",
		OcrExtractedData: ocrPayload(t, &models.OcrPayload{
			IsValid:    true,
			Confidence: 60,
		}),
	}

	result := v.Validate(document, "")

	// 50-70 confidence is a soft penalty, not a critical failure.
	require.Empty(t, result.Critical)
	require.Equal(t, 85.0, result.Score)
	require.Contains(t, result.Issues, "Low OCR confidence: 60%")
}

func TestDocumentValidator_MissingNumberFieldPenalty(t *testing.T) {
	v := NewDocumentValidator(nil)

	document := &models.Document{
		FilePath: writeTempFile(t, "scan.pdf", 50_000),
		MimeType: "application/pdf",
		OcrExtractedData: ocrPayload(t, &models.OcrPayload{
			IsValid:       true,
			Confidence:    90,
			MissingFields: []string{"PAN Number", "Name"},
		}),
	}

	result := v.Validate(document, "")

	// "PAN Number" costs 15, "Name" costs 5.
	require.Equal(t, 80.0, result.Score)
	require.Contains(t, result.Issues, "Missing field: PAN Number")
	require.Contains(t, result.Issues, "Missing field: Name")
}

func TestDocumentValidator_InvalidIdentityNumberFormats(t *testing.T) {
	v := NewDocumentValidator(nil)

	pan := &models.Document{
		FilePath: writeTempFile(t, "pan.pdf", 50_000),
		MimeType: "application/pdf",
		OcrExtractedData: ocrPayload(t, &models.OcrPayload{
			IsValid:         true,
			Confidence:      95,
			DetectedType:    "PAN",
			ExtractedFields: map[string]string{"pan_number": "ABC123"},
		}),
	}

	result := v.Validate(pan, "PAN")
	require.Contains(t, result.Critical, "Invalid PAN number format")

	aadhar := &models.Document{
		FilePath: writeTempFile(t, "aadhar.pdf", 50_000),
		MimeType: "application/pdf",
		OcrExtractedData: ocrPayload(t, &models.OcrPayload{
			IsValid:         true,
			Confidence:      95,
			DetectedType:    "AADHAR",
			ExtractedFields: map[string]string{"aadhar_number": "12345678901X"},
		}),
	}

	result = v.Validate(aadhar, "AADHAR")
	require.Contains(t, result.Critical, "Invalid Aadhar number format")
}
