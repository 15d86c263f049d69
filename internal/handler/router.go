package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hr-organogram/internal/metrics"
	"github.com/hr-organogram/internal/middleware"
)

// Router настраивает маршруты API
type Router struct {
	mux               *http.ServeMux
	logger            *slog.Logger
	metrics           *metrics.Metrics
	personHandler     *PersonHandler
	organogramHandler *OrganogramHandler
}

// NewRouter создаёт новый роутер
func NewRouter(personHandler *PersonHandler, organogramHandler *OrganogramHandler, m *metrics.Metrics, logger *slog.Logger) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		logger:            logger,
		metrics:           m,
		personHandler:     personHandler,
		organogramHandler: organogramHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc("/persons/", r.personsRouter)
	r.mux.HandleFunc("/organogram", r.organogramRouter)
	r.mux.HandleFunc("/organogram/", r.organogramRouter)

	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Metrics(r.metrics)(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	// метрики отдаются в своём формате, без JSON Content-Type
	root := http.NewServeMux()
	root.Handle("/metrics", r.metrics.Handler())
	root.Handle("/", handler)

	return root
}

// personsRouter обрабатывает все запросы к /persons/
func (r *Router) personsRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/persons")
	path = strings.Trim(path, "/")

	if path == "" {
		switch req.Method {
		case http.MethodPost:
			r.personHandler.Create(w, req)
		case http.MethodGet:
			r.personHandler.List(w, req)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if strings.Contains(path, "/") {
		notFound(w)
		return
	}

	// /persons/{id}
	switch req.Method {
	case http.MethodGet:
		r.personHandler.GetByID(w, req)
	case http.MethodPatch:
		r.personHandler.Update(w, req)
	case http.MethodDelete:
		r.personHandler.Delete(w, req)
	default:
		methodNotAllowed(w)
	}
}

// organogramRouter обрабатывает запросы к /organogram
func (r *Router) organogramRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimPrefix(req.URL.Path, "/organogram")
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "":
		r.organogramHandler.Get(w, req)
	case path == "summary":
		r.organogramHandler.Summary(w, req)
	case len(parts) == 2 && parts[0] == "nodes" && parts[1] != "":
		r.organogramHandler.GetNode(w, req)
	default:
		notFound(w)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
}

func notFound(w http.ResponseWriter) {
	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}
