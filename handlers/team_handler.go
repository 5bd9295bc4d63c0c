package handlers

import (
	"errors"
	"net/http"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/services"
)

// maxUploadBytes caps logo and photo uploads.
const maxUploadBytes = 5 << 20

type TeamHandler struct {
	registrationService services.RegistrationService
	teamService         services.TeamService
}

func NewTeamHandler(registrationService services.RegistrationService, teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		registrationService: registrationService,
		teamService:         teamService,
	}
}

// Register is the public registration endpoint; no authentication
// required.
func (h *TeamHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.registrationService.RegisterTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.TeamStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TeamStatus(raw)
		status = &s
	}

	teams, err := h.teamService.ListByTournament(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ChangeStatus is the admin approval endpoint.
func (h *TeamHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.TeamStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Status == "" {
		badRequestResponse(w, r, errors.New("status is required"))
		return
	}

	team, err := h.teamService.ChangeStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := formFile(w, r, "logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	team, err := h.teamService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
