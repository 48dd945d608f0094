// Package mockapi is an in-memory stand-in for the HR reference-data REST API. It mirrors
// the response shapes the client has to cope with, including the tribes list envelope.
package mockapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/modules/hrm"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/employmentstatus"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/relation"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/metrics"
	"github.com/iota-uz/hradmin/pkg/middleware"
	"github.com/iota-uz/hradmin/pkg/server"
)

type Options struct {
	// Prefix is the path the resources are mounted under, e.g. "/api".
	Prefix          string
	MetricsPath     string
	RequestIDHeader string
	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string
	Logger         *logrus.Logger
	// Seed fills the tables with a small fixture set.
	Seed bool
}

type Server struct {
	Tribes             *Table[tribe.Tribe]
	Relations          *Table[relation.Relation]
	EmploymentStatuses *Table[employmentstatus.EmploymentStatus]

	http *server.HTTPServer
}

func New(opts Options) *Server {
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetLevel(logrus.ErrorLevel)
	}
	s := &Server{
		Tribes:             NewTable[tribe.Tribe](),
		Relations:          NewTable[relation.Relation](),
		EmploymentStatuses: NewTable[employmentstatus.EmploymentStatus](),
	}
	if opts.Seed {
		s.seed()
	}

	controllers := []server.Controller{
		NewResourceController(opts.Prefix, hrm.TribesResource, s.Tribes,
			func(id entity.ID, d tribe.Draft) tribe.Tribe {
				return tribe.Tribe{ID: id, ShortCode: d.ShortCode, Name: d.Name}
			},
			"short_code", func(t tribe.Tribe) string { return t.ShortCode },
		),
		NewResourceController(opts.Prefix, hrm.RelationsResource, s.Relations,
			func(id entity.ID, d relation.Draft) relation.Relation {
				return relation.Relation{ID: id, ShortCode: d.ShortCode, Name: d.Name}
			},
			"short_code", func(r relation.Relation) string { return r.ShortCode },
		),
		NewResourceController(opts.Prefix, hrm.EmploymentStatusesResource, s.EmploymentStatuses,
			func(id entity.ID, d employmentstatus.Draft) employmentstatus.EmploymentStatus {
				return employmentstatus.EmploymentStatus{ID: id, Name: d.Name}
			},
			"name", func(es employmentstatus.EmploymentStatus) string { return es.Name },
		),
		metrics.NewPrometheusController(opts.MetricsPath, nil),
	}
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, r, http.StatusNotFound, codeNotFound, "route not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(opts.Logger, middleware.LoggerOptions{
			RequestIDHeader: opts.RequestIDHeader,
			LogRequestBody:  true,
			MaxBodyLength:   512,
		}),
	}
	if len(opts.AllowedOrigins) > 0 {
		middlewares = append(middlewares, middleware.Cors(opts.AllowedOrigins...))
	}
	s.http = server.NewHTTPServer(controllers, middlewares, notFound, notAllowed)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler()
}

func (s *Server) Serve(ctx context.Context, addr string) error {
	return s.http.Serve(ctx, addr)
}

func (s *Server) seed() {
	for _, d := range []tribe.Draft{
		{ShortCode: "ENG", Name: "Engineering"},
		{ShortCode: "OPS", Name: "Operations"},
		{ShortCode: "SAL", Name: "Sales"},
	} {
		_, _ = s.Tribes.Insert(func(id entity.ID) (tribe.Tribe, error) {
			return tribe.Tribe{ID: id, ShortCode: d.ShortCode, Name: d.Name}, nil
		})
	}
	for _, d := range []relation.Draft{
		{ShortCode: "SPO", Name: "Spouse"},
		{ShortCode: "CHI", Name: "Child"},
		{ShortCode: "PAR", Name: "Parent"},
	} {
		_, _ = s.Relations.Insert(func(id entity.ID) (relation.Relation, error) {
			return relation.Relation{ID: id, ShortCode: d.ShortCode, Name: d.Name}, nil
		})
	}
	for _, name := range []string{"Full-time", "Part-time", "Contractor"} {
		_, _ = s.EmploymentStatuses.Insert(func(id entity.ID) (employmentstatus.EmploymentStatus, error) {
			return employmentstatus.EmploymentStatus{ID: id, Name: name}, nil
		})
	}
}
