package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession("s1", ProfileMidday, time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC), "pick an origin", 10*time.Second)
}

func TestSessionStartsIdleWithDefaultProfile(t *testing.T) {
	s := newTestSession()
	require.Equal(t, SessionIdle, s.State)
	require.Equal(t, -1, s.OriginIndex)
	require.Equal(t, ProfileMidday, s.Profile)
}

func TestSelectOriginTransitions(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SelectOrigin(3, 24))
	require.Equal(t, SessionOriginSelected, s.State)
	require.Equal(t, 3, s.OriginIndex)

	// Re-targeting keeps the active profile.
	require.NoError(t, s.SwitchProfile(ProfileEveningPeak))
	require.NoError(t, s.SelectOrigin(7, 24))
	require.Equal(t, 7, s.OriginIndex)
	require.Equal(t, ProfileEveningPeak, s.Profile)
}

func TestSelectSameOriginTogglesBackToIdle(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.SelectOrigin(5, 24))
	require.NoError(t, s.SelectOrigin(5, 24))
	require.Equal(t, SessionIdle, s.State)
	require.Equal(t, -1, s.OriginIndex)
}

func TestSelectOriginRejectsOutOfRange(t *testing.T) {
	s := newTestSession()
	require.ErrorIs(t, s.SelectOrigin(24, 24), ErrZoneIndexOutOfRange)
	require.ErrorIs(t, s.SelectOrigin(-1, 24), ErrZoneIndexOutOfRange)
	require.Equal(t, SessionIdle, s.State)
}

func TestSwitchProfileRequiresOrigin(t *testing.T) {
	s := newTestSession()
	require.ErrorIs(t, s.SwitchProfile(ProfileNight), ErrNoOriginSelected)

	require.NoError(t, s.SelectOrigin(2, 24))
	require.NoError(t, s.SwitchProfile(ProfileNight))
	require.Equal(t, ProfileNight, s.Profile)
	require.Equal(t, 2, s.OriginIndex, "profile switch must not move the origin")

	require.ErrorIs(t, s.SwitchProfile(ProfileKey("rush_hour")), ErrUnknownProfile)
	require.Equal(t, ProfileNight, s.Profile)
}

func TestActiveNoticeExpires(t *testing.T) {
	s := newTestSession()
	created := s.CreatedAt

	require.NotNil(t, s.ActiveNotice(created.Add(5*time.Second)))
	require.Nil(t, s.ActiveNotice(created.Add(10*time.Second)))
	require.Nil(t, s.ActiveNotice(created.Add(time.Hour)))
}

func TestParseProfileKey(t *testing.T) {
	k, err := ParseProfileKey("evening_peak")
	require.NoError(t, err)
	require.Equal(t, ProfileEveningPeak, k)

	_, err = ParseProfileKey("lunch_rush")
	require.ErrorIs(t, err, ErrUnknownProfile)
}
