package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meetings-api/internal/httpx"
	"meetings-api/internal/model"
	"meetings-api/internal/store"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.storeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if users == nil {
		users = []model.UserWithMeetings{}
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u := &model.User{Email: *req.Email, Name: req.Name}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		// duplicate email lands here
		h.storeError(w, r, http.StatusBadRequest, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.storeError(w, r, http.StatusInternalServerError, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
