package domain

import "time"

// SessionState is the serving session's current mode.
type SessionState string

const (
	// SessionIdle means no origin zone is chosen; nothing is colored.
	SessionIdle SessionState = "idle"
	// SessionOriginSelected means one origin is chosen and every
	// destination is colored under the active profile.
	SessionOriginSelected SessionState = "origin_selected"
)

// Notice is a transient informational message shown to the user. It expires
// by timestamp and is dropped from views on read; no timer dismisses it.
type Notice struct {
	Message string    `json:"message"`
	Until   time.Time `json:"until"`
}

// Session is the read-only-consumer state machine over a matrix artifact: a
// selected origin plus an active profile. It never mutates the artifact.
type Session struct {
	ID          string       `json:"id"`
	State       SessionState `json:"state"`
	OriginIndex int          `json:"origin_index"`
	Profile     ProfileKey   `json:"profile"`
	CreatedAt   time.Time    `json:"created_at"`
	Notice      *Notice      `json:"notice,omitempty"`
}

// NewSession starts an idle session with the artifact's default profile
// active and an informational notice that expires at now+noticeFor.
func NewSession(id string, defaultProfile ProfileKey, now time.Time, notice string, noticeFor time.Duration) *Session {
	s := &Session{
		ID:          id,
		State:       SessionIdle,
		OriginIndex: -1,
		Profile:     defaultProfile,
		CreatedAt:   now,
	}
	if notice != "" && noticeFor > 0 {
		s.Notice = &Notice{Message: notice, Until: now.Add(noticeFor)}
	}
	return s
}

// SelectOrigin chooses the origin zone, re-targeting a previous selection if
// one exists. Selecting the already-active origin toggles the session back
// to idle. n is the zone count of the loaded artifact.
func (s *Session) SelectOrigin(index, n int) error {
	if index < 0 || index >= n {
		return ErrZoneIndexOutOfRange
	}
	if s.State == SessionOriginSelected && s.OriginIndex == index {
		s.State = SessionIdle
		s.OriginIndex = -1
		return nil
	}
	s.State = SessionOriginSelected
	s.OriginIndex = index
	return nil
}

// SwitchProfile changes the active profile without touching the selected
// origin. Only valid while an origin is selected.
func (s *Session) SwitchProfile(key ProfileKey) error {
	if s.State != SessionOriginSelected {
		return ErrNoOriginSelected
	}
	if !key.Valid() {
		return ErrUnknownProfile
	}
	s.Profile = key
	return nil
}

// ActiveNotice returns the notice if it has not expired at now.
func (s *Session) ActiveNotice(now time.Time) *Notice {
	if s.Notice == nil || !now.Before(s.Notice.Until) {
		return nil
	}
	return s.Notice
}
