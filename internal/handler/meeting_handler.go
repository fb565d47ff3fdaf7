package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meetings-api/internal/httpx"
	"meetings-api/internal/model"
	"meetings-api/internal/store"
)

func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.store.ListMeetings(r.Context())
	if err != nil {
		h.storeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if meetings == nil {
		meetings = []model.MeetingWithUser{}
	}
	httpx.JSON(w, http.StatusOK, meetings)
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	m := &model.Meeting{
		Title:       *req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.Time,
		EndTime:     req.EndTime.Time,
		Location:    req.Location,
		UserID:      *req.UserID,
	}
	created, err := h.store.CreateMeeting(r.Context(), m)
	if err != nil {
		// unknown userId lands here as a foreign key violation
		h.storeError(w, r, http.StatusBadRequest, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMeeting(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		h.storeError(w, r, http.StatusInternalServerError, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}
