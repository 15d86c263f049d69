package handler

import (
	"log/slog"
	"net/http"

	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/dto"
	"github.com/hr-organogram/internal/organogram"
	"github.com/hr-organogram/internal/service"
)

const nodesPrefix = "/organogram/nodes/"

type OrganogramHandler struct {
	base
	organogramService service.OrganogramService
}

func NewOrganogramHandler(organogramService service.OrganogramService, logger *slog.Logger) *OrganogramHandler {
	return &OrganogramHandler{
		base:              newBase(logger),
		organogramService: organogramService,
	}
}

// Get отдаёт лес подчинения вместе со сводками по отфильтрованному набору
func (h *OrganogramHandler) Get(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.parseCriteria(w, r)
	if !ok {
		return
	}

	view, err := h.organogramService.View(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := dto.OrganogramResponse{
		Total:        view.Total,
		Roots:        toNodeResponses(view.Forest.Roots),
		BrokenCycles: view.Forest.BrokenCycles,
		Overview:     dto.OverviewResponse(view.Overview),
		Departments:  toSummaryResponses(view.Departments),
	}
	for _, s := range view.Forest.Skipped {
		resp.Skipped = append(resp.Skipped, dto.SkippedRecordResponse{
			Index:  s.Index,
			ID:     s.ID,
			Reason: s.Reason,
		})
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *OrganogramHandler) Summary(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.parseCriteria(w, r)
	if !ok {
		return
	}

	summaries, err := h.organogramService.Summaries(r.Context(), criteria)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSummaryResponses(summaries))
}

func (h *OrganogramHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r, nodesPrefix)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid node id", err.Error())
		return
	}

	criteria, ok := h.parseCriteria(w, r)
	if !ok {
		return
	}

	node, path, err := h.organogramService.Node(r.Context(), criteria, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := dto.NodeDetailsResponse{
		Node: toNodeResponse(node),
		Path: make([]string, len(path)),
	}
	for i, n := range path {
		resp.Path[i] = n.ID
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *OrganogramHandler) parseCriteria(w http.ResponseWriter, r *http.Request) (organogram.Criteria, bool) {
	values := r.URL.Query()
	query := dto.OrganogramQuery{
		Department: values.Get("department"),
		Company:    values.Get("company"),
		Query:      values.Get("q"),
	}

	if err := h.validator.Struct(&query); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return organogram.Criteria{}, false
	}

	return organogram.Criteria(query), true
}

func toNodeResponses(nodes []*domain.HierarchyNode) []dto.NodeResponse {
	resp := make([]dto.NodeResponse, len(nodes))
	for i, n := range nodes {
		resp[i] = toNodeResponse(n)
	}
	return resp
}

func toNodeResponse(n *domain.HierarchyNode) dto.NodeResponse {
	resp := dto.NodeResponse{
		ID:           n.ID,
		Name:         n.Name,
		Position:     n.Position,
		Department:   n.Department,
		Company:      n.Company,
		Status:       string(n.Status),
		Depth:        n.Depth,
		Subordinates: n.Subordinates,
	}

	if n.SupervisorID != "" {
		supervisorID := n.SupervisorID
		resp.SupervisorID = &supervisorID
	}

	if n.JoinDate != nil {
		joinDate := n.JoinDate.Format("2006-01-02")
		resp.JoinDate = &joinDate
	}

	if len(n.Children) > 0 {
		resp.Children = toNodeResponses(n.Children)
	}

	return resp
}

func toSummaryResponses(summaries []domain.DepartmentSummary) []dto.DepartmentSummaryResponse {
	resp := make([]dto.DepartmentSummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = dto.DepartmentSummaryResponse(s)
	}
	return resp
}
