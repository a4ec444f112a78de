package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	// Pending fans out to every terminal state.
	assert.True(t, RequestPending.CanTransitionTo(RequestApproved))
	assert.True(t, RequestPending.CanTransitionTo(RequestRejected))
	assert.True(t, RequestPending.CanTransitionTo(RequestCancelled))
	assert.False(t, RequestPending.CanTransitionTo(RequestPending))

	// Terminal states accept nothing, including each other.
	for _, from := range []RequestStatus{RequestApproved, RequestRejected, RequestCancelled} {
		for _, to := range []RequestStatus{RequestPending, RequestApproved, RequestRejected, RequestCancelled} {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestDecodeRequestDetails(t *testing.T) {
	t.Run("Category selects the shape", func(t *testing.T) {
		raw, _ := json.Marshal(map[string]interface{}{
			"waste_type": "oily sludge",
			"volume":     "30 cbm",
			"location":   "Rig 14",
		})

		details, err := DecodeRequestDetails(CategoryWaste, raw)

		assert.NoError(t, err)
		waste, ok := details.(*WasteDetails)
		assert.True(t, ok)
		assert.Equal(t, "oily sludge", waste.WasteType)
	})

	t.Run("Missing required field", func(t *testing.T) {
		raw, _ := json.Marshal(map[string]interface{}{"volume": "30 cbm"})

		_, err := DecodeRequestDetails(CategoryWaste, raw)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "waste_type", validationErr.Field)
	})

	t.Run("Malformed payload", func(t *testing.T) {
		_, err := DecodeRequestDetails(CategoryManning, []byte("not json"))

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Unknown category", func(t *testing.T) {
		_, err := DecodeRequestDetails("catering", []byte(`{}`))

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Date fields parse civil dates", func(t *testing.T) {
		raw := []byte(`{"service_name":"ROV Inspection","start_date":"2026-03-01"}`)

		details, err := DecodeRequestDetails(CategoryOffshore, raw)

		assert.NoError(t, err)
		offshore := details.(*OffshoreDetails)
		assert.NotNil(t, offshore.StartDate)
		assert.Equal(t, "2026-03-01", offshore.StartDate.String())
	})
}
