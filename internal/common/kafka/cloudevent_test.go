package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	BookingID string `json:"booking_id"`
	Nights    int    `json:"nights"`
}

func TestCloudEvent_RoundTrip(t *testing.T) {
	ce, err := NewCloudEvent("service-rental", "booking.requested", samplePayload{BookingID: "b1", Nights: 4})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)
	assert.Equal(t, "application/json", ce.DataContentType)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "booking.requested", parsed.Type)

	var payload samplePayload
	require.NoError(t, parsed.ParseData(&payload))
	assert.Equal(t, "b1", payload.BookingID)
	assert.Equal(t, 4, payload.Nights)
}

func TestParseCloudEvent_Malformed(t *testing.T) {
	_, err := ParseCloudEvent([]byte("{not json"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"x"}`))
	assert.Error(t, err)
}

func TestParseData_Empty(t *testing.T) {
	var payload samplePayload
	assert.Error(t, CloudEvent{ID: "x"}.ParseData(&payload))
}
