package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"zone-matrix-service/internal/api/dto"
	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/ports"
	"zone-matrix-service/internal/services"
)

// SessionHandler runs the interactive serving sessions: pick an origin zone,
// switch congestion profiles, hover destinations. A session only holds
// viewer state; the artifact is never mutated through this surface.
type SessionHandler struct {
	Artifact *domain.Artifact
	View     *services.MatrixView
	Store    ports.SessionStore

	WelcomeNotice string
	NoticeFor     time.Duration

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

func NewSessionHandler(art *domain.Artifact, view *services.MatrixView, store ports.SessionStore, welcome string, noticeFor time.Duration) *SessionHandler {
	return &SessionHandler{
		Artifact:      art,
		View:          view,
		Store:         store,
		WelcomeNotice: welcome,
		NoticeFor:     noticeFor,
		Now:           time.Now,
		NewID:         uuid.NewString,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := domain.NewSession(h.NewID(), h.Artifact.DefaultProfile, h.Now(), h.WelcomeNotice, h.NoticeFor)
	if err := h.Store.Put(r.Context(), s); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeSession(w, r, http.StatusCreated, s)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeSession(w, r, http.StatusOK, s)
}

func (h *SessionHandler) SelectOrigin(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectOriginRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Zone == nil {
		writeError(w, r, http.StatusBadRequest, "zone is required")
		return
	}

	s, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.SelectOrigin(*req.Zone, h.Artifact.Size()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.Store.Put(r.Context(), s); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeSession(w, r, http.StatusOK, s)
}

func (h *SessionHandler) SwitchProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.SwitchProfileRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	key, err := domain.ParseProfileKey(req.Profile)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if _, ok := h.Artifact.Profiles[key]; !ok {
		writeError(w, r, http.StatusBadRequest, "profile not in artifact")
		return
	}

	s, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.SwitchProfile(key); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.Store.Put(r.Context(), s); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeSession(w, r, http.StatusOK, s)
}

// Hover is transient: it reads the session but never writes it back.
func (h *SessionHandler) Hover(w http.ResponseWriter, r *http.Request) {
	j, err := strconv.Atoi(r.URL.Query().Get("zone"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "zone must be an integer index")
		return
	}

	s, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	info, err := h.View.Hover(h.Artifact, s, j)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HoverResponse{
		From:        info.From,
		To:          info.To,
		Profile:     string(info.Profile),
		Minutes:     info.Minutes,
		Kilometers:  info.Kilometers,
		AvgSpeedKmh: info.AvgSpeedKmh,
	})
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, s *domain.Session) {
	res := dto.SessionResponse{
		SessionID: s.ID,
		State:     string(s.State),
		Profile:   string(s.Profile),
		Zones:     make([]dto.ZoneStyleResponse, 0, h.Artifact.Size()),
	}
	if s.State == domain.SessionOriginSelected {
		idx := s.OriginIndex
		res.OriginIndex = &idx
		res.OriginZone = h.Artifact.Communes[idx]
	}
	if n := s.ActiveNotice(h.Now()); n != nil {
		res.Notice = n.Message
	}

	for _, style := range h.View.Render(h.Artifact, s) {
		res.Zones = append(res.Zones, dto.ZoneStyleResponse{
			Zone:    style.Name,
			Minutes: style.Minutes,
			Color:   style.Color,
			Origin:  style.Origin,
		})
	}

	writeJSON(w, r, status, res)
}
