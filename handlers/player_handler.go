package handlers

import (
	"net/http"

	"github.com/yerlan-k/league-system/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(playerService services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

func (h *PlayerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := formFile(w, r, "photo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	player, err := h.playerService.UploadPhoto(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
