package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCanRefresh(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	session := Session{SessionStatus: true, RefreshTokenExpiry: now.Add(time.Hour)}
	assert.True(t, session.CanRefresh(now))

	session.SessionStatus = false
	assert.False(t, session.CanRefresh(now))

	session.SessionStatus = true
	session.RefreshTokenExpiry = now.Add(-time.Minute)
	assert.False(t, session.CanRefresh(now))

	// Exactly at expiry counts as expired.
	session.RefreshTokenExpiry = now
	assert.False(t, session.CanRefresh(now))
}

func TestSessionJSONFieldNames(t *testing.T) {
	session := Session{
		UserID:        uuid.New(),
		RefreshToken:  "rt",
		SessionStatus: true,
	}

	data, err := json.Marshal(session)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "userId")
	assert.Contains(t, raw, "refreshToken")
	assert.Contains(t, raw, "sessionStatus")
	// An unset OTP value stays off the wire.
	assert.NotContains(t, raw, "otpValue")
}

func TestMoodFromScore(t *testing.T) {
	assert.Equal(t, MoodPositive, MoodFromScore(2.5))
	assert.Equal(t, MoodNegative, MoodFromScore(-0.1))
	assert.Equal(t, MoodNeutral, MoodFromScore(0))
}

func TestTimeOfDayFromDate(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, TimeOfDayMorning, TimeOfDayFromDate(day.Add(5*time.Hour)))
	assert.Equal(t, TimeOfDayMorning, TimeOfDayFromDate(day.Add(11*time.Hour)))
	assert.Equal(t, TimeOfDayAfternoon, TimeOfDayFromDate(day.Add(12*time.Hour)))
	assert.Equal(t, TimeOfDayAfternoon, TimeOfDayFromDate(day.Add(17*time.Hour)))
	assert.Equal(t, TimeOfDayEvening, TimeOfDayFromDate(day.Add(18*time.Hour)))
	assert.Equal(t, TimeOfDayEvening, TimeOfDayFromDate(day.Add(3*time.Hour)))
}
