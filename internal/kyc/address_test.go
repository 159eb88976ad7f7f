package kyc

import (
	"testing"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress_CompleteAddress(t *testing.T) {
	customer := &models.Customer{
		Address:  "42 MG Road, Indiranagar",
		CityTown: "Bengaluru",
		Pincode:  "560038",
	}

	result := ValidateAddress(customer, "")

	require.True(t, result.Valid)
	require.Equal(t, 100.0, result.Score)
	require.Empty(t, result.Issues)
}

func TestValidateAddress_MissingParts(t *testing.T) {
	customer := &models.Customer{
		Address:  "42",
		CityTown: "",
		Pincode:  "560",
	}

	result := ValidateAddress(customer, "")

	require.False(t, result.Valid)
	require.Equal(t, 65.0, result.Score)
	require.Equal(t, []string{
		"Address too short or missing",
		"City/Town missing",
		"Pincode missing or invalid",
	}, result.Issues)
}

func TestValidateAddress_DocumentMismatch(t *testing.T) {
	customer := &models.Customer{
		Address:  "42 MG Road, Indiranagar",
		CityTown: "Bengaluru",
		Pincode:  "560038",
	}

	// The extracted address shares no roadway keyword with the stated one.
	result := ValidateAddress(customer, "17 Rose Avenue, Whitefield")

	require.True(t, result.Valid)
	require.Equal(t, 85.0, result.Score)
	require.Contains(t, result.Issues, "Address mismatch with document")
}

func TestValidateAddress_SharedKeywordMatches(t *testing.T) {
	customer := &models.Customer{
		Address:  "42 MG Road, Indiranagar",
		CityTown: "Bengaluru",
		Pincode:  "560038",
	}

	result := ValidateAddress(customer, "42 MG Road, Indiranagar, Bengaluru")

	require.Equal(t, 100.0, result.Score)
	require.NotContains(t, result.Issues, "Address mismatch with document")
}

func TestValidateAddress_ShortExtractedAddressSkipsMismatch(t *testing.T) {
	customer := &models.Customer{
		Address:  "42 MG Road, Indiranagar",
		CityTown: "Bengaluru",
		Pincode:  "560038",
	}

	// OCR fragments of 10 characters or fewer carry too little signal to
	// call a mismatch.
	result := ValidateAddress(customer, "blurredtx")

	require.Equal(t, 100.0, result.Score)
}
