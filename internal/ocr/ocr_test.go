package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleAadharText = `GOVERNMENT OF INDIA
AADHAAR

Name: Ramesh Kumar
Date of Birth: 15/03/1990
Address: 42 MG Road, Indiranagar, Bengaluru - 560038
Aadhaar No: 9876 5432 1098`

const samplePanText = `INCOME TAX DEPARTMENT
GOVT. OF INDIA
PERMANENT ACCOUNT NUMBER CARD

Name: Ramesh Kumar
Date of Birth: 15/03/1990
ABCDE1234F`

func TestValidateAadhar_ExtractsAllFields(t *testing.T) {
	result := Validate(sampleAadharText, DocumentTypeAadhar)

	require.True(t, result.IsValid)
	require.Equal(t, 100.0, result.CompletenessScore)
	require.Equal(t, "987654321098", result.ExtractedFields["aadhar_number"])
	require.Equal(t, "Ramesh Kumar", result.ExtractedFields["name"])
	require.Equal(t, "15/03/1990", result.ExtractedFields["dob"])
	require.Equal(t, DocumentTypeAadhar, result.DetectedType)
	require.Empty(t, result.MissingFields)
}

func TestValidatePan_ExtractsAllFields(t *testing.T) {
	result := Validate(samplePanText, DocumentTypePan)

	require.True(t, result.IsValid)
	require.Equal(t, 100.0, result.CompletenessScore)
	require.Equal(t, "ABCDE1234F", result.ExtractedFields["pan_number"])
	require.Equal(t, "Ramesh Kumar", result.ExtractedFields["name"])
	require.Equal(t, DocumentTypePan, result.DetectedType)
}

func TestValidateAadhar_MissingFieldsReported(t *testing.T) {
	result := Validate("AADHAAR card with no readable fields", DocumentTypeAadhar)

	require.False(t, result.IsValid)
	require.Equal(t, []string{"Aadhar Number", "Name", "Date of Birth"}, result.MissingFields)
}

func TestValidatePan_PartialExtractionBelowThreshold(t *testing.T) {
	// Only the PAN number is recoverable: 40 points, below the 70 bar.
	result := Validate("PERMANENT ACCOUNT NUMBER ABCDE1234F", DocumentTypePan)

	require.False(t, result.IsValid)
	require.Equal(t, 40.0, result.CompletenessScore)
	require.Contains(t, result.MissingFields, "Name")
	require.Contains(t, result.MissingFields, "Date of Birth")
}

func TestValidateGeneric(t *testing.T) {
	short := Validate("too short", "")
	require.False(t, short.IsValid)

	long := Validate(sampleAadharText, "")
	require.True(t, long.IsValid)
	require.Equal(t, DocumentTypeAadhar, long.DetectedType)
}

func TestDetectDocumentType(t *testing.T) {
	require.Equal(t, DocumentTypeAadhar, DetectDocumentType("AADHAAR card"))
	require.Equal(t, DocumentTypeAadhar, DetectDocumentType("aadhar enrollment"))
	require.Equal(t, DocumentTypePan, DetectDocumentType("INCOME TAX DEPARTMENT"))
	require.Equal(t, DocumentTypePan, DetectDocumentType("number ABCDE1234F on card"))
	require.Equal(t, DocumentTypeAadhar, DetectDocumentType("number 1234 5678 9012 on card"))
	require.Equal(t, "", DetectDocumentType("unreadable scan"))
}

func TestStubEngine_DeterministicPerFileName(t *testing.T) {
	dir := t.TempDir()

	panPath := filepath.Join(dir, "pan_card.png")
	require.NoError(t, os.WriteFile(panPath, []byte("x"), 0o644))

	aadharPath := filepath.Join(dir, "identity.png")
	require.NoError(t, os.WriteFile(aadharPath, []byte("x"), 0o644))

	engine := NewStubEngine()

	first, err := engine.ExtractText(panPath, "image/png")
	require.NoError(t, err)
	second, err := engine.ExtractText(panPath, "image/png")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Contains(t, first, "PERMANENT ACCOUNT")

	other, err := engine.ExtractText(aadharPath, "image/png")
	require.NoError(t, err)
	require.Contains(t, other, "AADHAAR")
}

func TestProcessor_Process(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pan_front.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	processor := NewProcessor(NewStubEngine())

	result, err := processor.Process(path, "image/jpeg", DocumentTypePan)
	require.NoError(t, err)
	require.True(t, result.IsValid)
	require.Equal(t, DocumentTypePan, result.DetectedType)
}

func TestProcessor_MissingFile(t *testing.T) {
	processor := NewProcessor(NewStubEngine())

	_, err := processor.Process("/nonexistent/doc.png", "image/png", DocumentTypePan)
	require.Error(t, err)
}
