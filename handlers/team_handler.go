package handlers

import (
	"errors"
	"net/http"

	"github.com/maxesports/esports-hub/contract"
	"github.com/maxesports/esports-hub/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// ListHandler handles GET /api/team.
func (h *TeamHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, members, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHandler handles POST /api/team.
func (h *TeamHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input contract.CreateTeamMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if fieldErr := contract.Validate(&input); fieldErr != nil {
		failedValidationResponse(w, r, fieldErr)
		return
	}

	member, err := h.teamService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, member, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PUT /api/team/{id}.
func (h *TeamHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input contract.UpdateTeamMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if fieldErr := contract.Validate(&input); fieldErr != nil {
		failedValidationResponse(w, r, fieldErr)
		return
	}

	member, err := h.teamService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, member, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /api/team/{id}. Idempotent like tournament
// deletion.
func (h *TeamHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
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

// UploadPhotoHandler handles POST /api/team/{id}/photo.
func (h *TeamHandler) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, errors.New("multipart field 'image' is required"))
		return
	}
	defer file.Close()

	member, err := h.teamService.UpdatePhoto(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, member, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
