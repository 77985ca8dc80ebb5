package input

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingInput_UnmarshalJSON(t *testing.T) {
	var in MeetingInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"meetingId": "m1",
		"userId": "u1",
		"start": "2025-06-01T10:00:00Z",
		"end": "2025-06-01T10:30:00.5+03:00",
		"title": "Sync"
	}`), &in))

	assert.Equal(t, "m1", in.MeetingID)
	assert.Equal(t, "u1", in.UserID)
	assert.Equal(t, "Sync", in.Title)
	assert.True(t, in.Start.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, in.End.Equal(time.Date(2025, 6, 1, 7, 30, 0, 500_000_000, time.UTC)))
}

func TestMeetingInput_EmptyTimesAreZero(t *testing.T) {
	tests := []string{
		`{"meetingId": "m1", "start": "", "end": ""}`,
		`{"meetingId": "m1", "start": null, "end": null}`,
		`{"meetingId": "m1"}`,
	}

	for _, payload := range tests {
		var in MeetingInput
		require.NoError(t, json.Unmarshal([]byte(payload), &in), payload)

		assert.Equal(t, "m1", in.MeetingID)
		assert.True(t, in.Start.IsZero(), payload)
		assert.True(t, in.End.IsZero(), payload)
	}
}

func TestMeetingInput_MalformedTime(t *testing.T) {
	var in MeetingInput
	err := json.Unmarshal([]byte(`{"start": "tomorrow"}`), &in)
	assert.ErrorContains(t, err, "parse start")
}
