package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/dto"
	"github.com/hr-organogram/internal/handler"
	"github.com/hr-organogram/internal/metrics"
	"github.com/hr-organogram/internal/repository"
	"github.com/hr-organogram/internal/service"
)

type testServer struct {
	server *httptest.Server
	repo   repository.PersonRepository
}

func newServer(repo repository.PersonRepository) *httptest.Server {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	m := metrics.New()

	personHandler := handler.NewPersonHandler(service.NewPersonService(repo), logger)
	organogramHandler := handler.NewOrganogramHandler(service.NewOrganogramService(repo, m, logger), logger)
	router := handler.NewRouter(personHandler, organogramHandler, m, logger)

	return httptest.NewServer(router.Setup())
}

func setupTestServer(_ *testing.T, persons ...domain.Person) *testServer {
	repo := repository.NewMemoryPersonRepository(persons...)
	return &testServer{
		server: newServer(repo),
		repo:   repo,
	}
}

func (ts *testServer) Close() {
	ts.server.Close()
}

func person(id, department, reportingTo string) domain.Person {
	p := domain.Person{
		ID:         id,
		Name:       "Name " + id,
		Position:   "Engineer",
		Department: department,
		Status:     domain.StatusActive,
	}
	if reportingTo != "" {
		p.ReportingTo = &reportingTo
	}
	return p
}

func postJSON(url string, body map[string]any) (*http.Response, error) {
	data, _ := json.Marshal(body)
	return http.Post(url, "application/json", bytes.NewBuffer(data))
}

func patchJSON(url string, body map[string]any) (*http.Response, error) {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return http.DefaultClient.Do(req)
}

func deleteRequest(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}

func expectStatus(t *testing.T, resp *http.Response, err error, want int) {
	t.Helper()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, body)
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/health")
	expectStatus(t, resp, err, http.StatusOK)
	resp.Body.Close()
}

func TestCreatePerson_Success(t *testing.T) {
	ts := setupTestServer(t, person("CEO", "Board", ""))
	defer ts.Close()

	resp, err := postJSON(ts.server.URL+"/persons/", map[string]any{
		"id":           "CTO",
		"name":         "Tech Lead",
		"department":   "Engineering",
		"reporting_to": "CEO",
		"join_date":    "2021-03-01",
	})
	expectStatus(t, resp, err, http.StatusCreated)

	result := decode[dto.PersonResponse](t, resp)
	if result.ID != "CTO" {
		t.Errorf("expected id 'CTO', got '%s'", result.ID)
	}
	if result.ReportingTo == nil || *result.ReportingTo != "CEO" {
		t.Errorf("expected reporting_to 'CEO', got %v", result.ReportingTo)
	}
	if result.Status != string(domain.StatusActive) {
		t.Errorf("expected default status, got '%s'", result.Status)
	}
	if result.JoinDate == nil || *result.JoinDate != "2021-03-01" {
		t.Errorf("expected join_date '2021-03-01', got %v", result.JoinDate)
	}
}

func TestCreatePerson_Errors(t *testing.T) {
	ts := setupTestServer(t, person("CEO", "Board", ""))
	defer ts.Close()

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{name: "missing name", body: map[string]any{"id": "X"}, want: http.StatusBadRequest},
		{name: "blank name", body: map[string]any{"id": "X", "name": "   "}, want: http.StatusBadRequest},
		{name: "bad join date", body: map[string]any{"name": "X", "join_date": "01/02/2020"}, want: http.StatusBadRequest},
		{name: "duplicate id", body: map[string]any{"id": "CEO", "name": "Other"}, want: http.StatusConflict},
		{name: "unknown supervisor", body: map[string]any{"name": "X", "reporting_to": "ghost"}, want: http.StatusNotFound},
		{name: "self reference", body: map[string]any{"id": "X", "name": "X", "reporting_to": "X"}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := postJSON(ts.server.URL+"/persons/", tt.body)
			expectStatus(t, resp, err, tt.want)
			resp.Body.Close()
		})
	}
}

func TestCreatePerson_InvalidJSON(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := http.Post(ts.server.URL+"/persons/", "application/json", strings.NewReader("{invalid"))
	expectStatus(t, resp, err, http.StatusBadRequest)
	resp.Body.Close()
}

func TestGetPerson(t *testing.T) {
	ts := setupTestServer(t, person("CEO", "Board", ""))
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/persons/CEO")
	expectStatus(t, resp, err, http.StatusOK)
	if got := decode[dto.PersonResponse](t, resp); got.Name != "Name CEO" {
		t.Errorf("expected name 'Name CEO', got '%s'", got.Name)
	}

	resp, err = http.Get(ts.server.URL + "/persons/ghost")
	expectStatus(t, resp, err, http.StatusNotFound)
	resp.Body.Close()
}

func TestListPersons(t *testing.T) {
	ts := setupTestServer(t, person("B", "Eng", ""), person("A", "Eng", "B"))
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/persons/")
	expectStatus(t, resp, err, http.StatusOK)

	list := decode[[]dto.PersonResponse](t, resp)
	if len(list) != 2 || list[0].ID != "B" || list[1].ID != "A" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestUpdatePerson(t *testing.T) {
	ts := setupTestServer(t,
		person("CEO", "Board", ""),
		person("CTO", "Eng", "CEO"),
		person("DEV", "Eng", "CTO"),
	)
	defer ts.Close()

	tests := []struct {
		name string
		id   string
		body map[string]any
		want int
	}{
		{name: "cycle", id: "CTO", body: map[string]any{"reporting_to": "DEV"}, want: http.StatusConflict},
		{name: "self", id: "CTO", body: map[string]any{"reporting_to": "CTO"}, want: http.StatusBadRequest},
		{name: "unknown supervisor", id: "CTO", body: map[string]any{"reporting_to": "ghost"}, want: http.StatusNotFound},
		{name: "missing person", id: "ghost", body: map[string]any{"name": "x"}, want: http.StatusNotFound},
		{name: "move", id: "DEV", body: map[string]any{"reporting_to": "CEO", "position": "Architect"}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := patchJSON(ts.server.URL+"/persons/"+tt.id, tt.body)
			expectStatus(t, resp, err, tt.want)
			resp.Body.Close()
		})
	}

	dev, err := ts.repo.GetByID(context.Background(), "DEV")
	if err != nil {
		t.Fatalf("failed to load person: %v", err)
	}
	if dev.SupervisorID() != "CEO" || dev.Position != "Architect" {
		t.Errorf("update not applied: %+v", dev)
	}
}

func TestReportingToEmptyString(t *testing.T) {
	ts := setupTestServer(t, person("CEO", "Board", ""), person("CTO", "Eng", "CEO"))
	defer ts.Close()

	// при создании корень задаётся отсутствием поля, а не пустой строкой
	resp, err := postJSON(ts.server.URL+"/persons/", map[string]any{"id": "X", "name": "X", "reporting_to": ""})
	expectStatus(t, resp, err, http.StatusBadRequest)
	resp.Body.Close()

	resp, err = postJSON(ts.server.URL+"/persons/", map[string]any{"id": "Y", "name": "Y"})
	expectStatus(t, resp, err, http.StatusCreated)
	if got := decode[dto.PersonResponse](t, resp); got.ReportingTo != nil {
		t.Errorf("expected root person, got reporting_to %v", *got.ReportingTo)
	}

	// при обновлении пустая строка снимает руководителя
	resp, err = patchJSON(ts.server.URL+"/persons/CTO", map[string]any{"reporting_to": ""})
	expectStatus(t, resp, err, http.StatusOK)
	if got := decode[dto.PersonResponse](t, resp); got.ReportingTo != nil {
		t.Errorf("expected cleared reporting_to, got %v", *got.ReportingTo)
	}
}

func TestDeletePerson_ReassignsReports(t *testing.T) {
	ts := setupTestServer(t,
		person("CEO", "Board", ""),
		person("CTO", "Eng", "CEO"),
		person("DEV", "Eng", "CTO"),
	)
	defer ts.Close()

	resp, err := deleteRequest(ts.server.URL + "/persons/CTO")
	expectStatus(t, resp, err, http.StatusNoContent)
	resp.Body.Close()

	dev, err := ts.repo.GetByID(context.Background(), "DEV")
	if err != nil {
		t.Fatalf("failed to load person: %v", err)
	}
	if dev.SupervisorID() != "CEO" {
		t.Errorf("expected DEV to report to CEO, got '%s'", dev.SupervisorID())
	}

	resp, err = deleteRequest(ts.server.URL + "/persons/CTO")
	expectStatus(t, resp, err, http.StatusNotFound)
	resp.Body.Close()
}

func TestGetOrganogram(t *testing.T) {
	ts := setupTestServer(t,
		person("E1", "Eng", ""),
		person("E2", "Eng", "E1"),
		person("E3", "HR", "E1"),
		person("E4", "Eng", "E2"),
		person("X1", "Ops", "ghost"),
	)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/organogram")
	expectStatus(t, resp, err, http.StatusOK)

	result := decode[dto.OrganogramResponse](t, resp)
	if result.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Total)
	}
	if len(result.Roots) != 2 || result.Roots[0].ID != "E1" || result.Roots[1].ID != "X1" {
		t.Fatalf("unexpected roots: %+v", result.Roots)
	}

	root := result.Roots[0]
	if root.SupervisorID != nil || root.Subordinates != 3 || len(root.Children) != 2 {
		t.Errorf("unexpected root: %+v", root)
	}
	lead := root.Children[0]
	if lead.ID != "E2" || lead.Depth != 1 || lead.SupervisorID == nil || *lead.SupervisorID != "E1" {
		t.Errorf("unexpected child: %+v", lead)
	}
	if result.Overview.Roots != 2 || result.Overview.Departments != 3 {
		t.Errorf("unexpected overview: %+v", result.Overview)
	}
	if len(result.Departments) != 3 || result.Departments[0].Department != "Eng" {
		t.Errorf("unexpected departments: %+v", result.Departments)
	}
}

func TestGetOrganogram_Filtered(t *testing.T) {
	ts := setupTestServer(t,
		person("E1", "Eng", ""),
		person("E2", "HR", "E1"),
		person("E3", "Eng", "E2"),
	)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/organogram?department=Eng")
	expectStatus(t, resp, err, http.StatusOK)

	result := decode[dto.OrganogramResponse](t, resp)
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	// E3 теряет руководителя из другого подразделения и становится корнем
	if len(result.Roots) != 2 || result.Roots[1].ID != "E3" {
		t.Errorf("unexpected roots: %+v", result.Roots)
	}

	resp, err = http.Get(ts.server.URL + "/organogram?q=" + strings.Repeat("x", 201))
	expectStatus(t, resp, err, http.StatusBadRequest)
	resp.Body.Close()
}

func TestGetOrganogram_ReportsSkippedAndCycles(t *testing.T) {
	ts := setupTestServer(t,
		person("A", "Eng", "B"),
		person("B", "Eng", "A"),
		domain.Person{ID: "NONAME"},
	)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/organogram")
	expectStatus(t, resp, err, http.StatusOK)

	result := decode[dto.OrganogramResponse](t, resp)
	if len(result.Skipped) != 1 || result.Skipped[0].ID != "NONAME" {
		t.Errorf("unexpected skipped: %+v", result.Skipped)
	}
	if len(result.BrokenCycles) != 1 || result.BrokenCycles[0] != "A" {
		t.Errorf("unexpected broken cycles: %+v", result.BrokenCycles)
	}
	if len(result.Roots) != 1 || result.Roots[0].ID != "A" {
		t.Errorf("unexpected roots: %+v", result.Roots)
	}
}

func TestGetSummary(t *testing.T) {
	ts := setupTestServer(t,
		person("E1", "Eng", ""),
		person("E2", "HR", "E1"),
		person("E3", "Eng", "E1"),
	)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/organogram/summary")
	expectStatus(t, resp, err, http.StatusOK)

	summaries := decode[[]dto.DepartmentSummaryResponse](t, resp)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Department != "Eng" || summaries[0].Total != 2 || summaries[0].Positions["Engineer"] != 2 {
		t.Errorf("unexpected summary: %+v", summaries[0])
	}
}

func TestGetNode(t *testing.T) {
	ts := setupTestServer(t,
		person("E1", "Eng", ""),
		person("E2", "Eng", "E1"),
		person("E3", "Eng", "E2"),
	)
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/organogram/nodes/E3")
	expectStatus(t, resp, err, http.StatusOK)

	result := decode[dto.NodeDetailsResponse](t, resp)
	if result.Node.ID != "E3" || result.Node.Depth != 2 {
		t.Errorf("unexpected node: %+v", result.Node)
	}
	if strings.Join(result.Path, ",") != "E1,E2,E3" {
		t.Errorf("unexpected path: %v", result.Path)
	}

	resp, err = http.Get(ts.server.URL + "/organogram/nodes/ghost")
	expectStatus(t, resp, err, http.StatusNotFound)
	resp.Body.Close()
}

type unavailableRepo struct {
	repository.PersonRepository
}

func (unavailableRepo) List(context.Context) ([]domain.Person, error) {
	return nil, errors.New("connection refused")
}

func TestGetOrganogram_DataUnavailable(t *testing.T) {
	server := newServer(unavailableRepo{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/organogram")
	expectStatus(t, resp, err, http.StatusServiceUnavailable)

	result := decode[dto.ErrorResponse](t, resp)
	if result.Error != "data unavailable" {
		t.Errorf("unexpected error: %+v", result)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t, person("E1", "Eng", ""))
	defer ts.Close()

	for _, url := range []string{"/persons/E1", "/organogram"} {
		req, err := http.NewRequest(http.MethodPut, ts.server.URL+url, nil)
		if err != nil {
			t.Fatalf("failed to create request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		expectStatus(t, resp, err, http.StatusMethodNotAllowed)
		resp.Body.Close()
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, person("E1", "Eng", ""))
	defer ts.Close()

	resp, err := http.Get(ts.server.URL + "/organogram")
	expectStatus(t, resp, err, http.StatusOK)
	resp.Body.Close()

	resp, err = http.Get(ts.server.URL + "/metrics")
	expectStatus(t, resp, err, http.StatusOK)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"organogram_http_requests_total", "organogram_builds_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output lacks %s", name)
		}
	}
}

func TestFullWorkflow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp, err := postJSON(ts.server.URL+"/persons/", map[string]any{"id": "CEO", "name": "Chief"})
	expectStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	resp, err = postJSON(ts.server.URL+"/persons/", map[string]any{"id": "CTO", "name": "Tech", "reporting_to": "CEO"})
	expectStatus(t, resp, err, http.StatusCreated)
	resp.Body.Close()

	resp, err = postJSON(ts.server.URL+"/persons/", map[string]any{"name": "Dev", "reporting_to": "CTO"})
	expectStatus(t, resp, err, http.StatusCreated)
	dev := decode[dto.PersonResponse](t, resp)

	resp, err = http.Get(ts.server.URL + "/organogram/nodes/" + dev.ID)
	expectStatus(t, resp, err, http.StatusOK)
	if got := decode[dto.NodeDetailsResponse](t, resp); len(got.Path) != 3 {
		t.Fatalf("expected path of 3, got %v", got.Path)
	}

	resp, err = deleteRequest(ts.server.URL + "/persons/CTO")
	expectStatus(t, resp, err, http.StatusNoContent)
	resp.Body.Close()

	resp, err = http.Get(ts.server.URL + "/organogram")
	expectStatus(t, resp, err, http.StatusOK)
	result := decode[dto.OrganogramResponse](t, resp)
	if result.Total != 2 || result.Roots[0].Subordinates != 1 {
		t.Fatalf("unexpected organogram after delete: %+v", result)
	}
}

func BenchmarkGetOrganogram(b *testing.B) {
	persons := make([]domain.Person, 0, 1000)
	persons = append(persons, person("0", "Eng", ""))
	for i := 1; i < 1000; i++ {
		persons = append(persons, person(strconv.Itoa(i), "Eng", strconv.Itoa((i-1)/4)))
	}
	server := newServer(repository.NewMemoryPersonRepository(persons...))
	defer server.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, _ := http.Get(server.URL + "/organogram")
		resp.Body.Close()
	}
}
