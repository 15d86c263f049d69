package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/dto"
	"github.com/hr-organogram/internal/service"
)

const personsPrefix = "/persons/"

type PersonHandler struct {
	base
	personService service.PersonService
}

func NewPersonHandler(personService service.PersonService, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{
		base:          newBase(logger),
		personService: personService,
	}
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	p, err := h.personService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toPersonResponse(p))
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	persons, err := h.personService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.PersonResponse, len(persons))
	for i := range persons {
		resp[i] = toPersonResponse(&persons[i])
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *PersonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r, personsPrefix)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid person id", err.Error())
		return
	}

	p, err := h.personService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPersonResponse(p))
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r, personsPrefix)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid person id", err.Error())
		return
	}

	var req dto.UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	p, err := h.personService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toPersonResponse(p))
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r, personsPrefix)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid person id", err.Error())
		return
	}

	if err := h.personService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPersonResponse(p *domain.Person) dto.PersonResponse {
	resp := dto.PersonResponse{
		ID:          p.ID,
		Name:        p.Name,
		Position:    p.Position,
		Department:  p.Department,
		Company:     p.Company,
		Status:      string(p.Status),
		ReportingTo: p.ReportingTo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.JoinDate != nil {
		joinDate := p.JoinDate.Format("2006-01-02")
		resp.JoinDate = &joinDate
	}

	return resp
}
