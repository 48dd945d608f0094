package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/hradmin/modules/hrm/services"
	"github.com/iota-uz/hradmin/pkg/composables"
	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/gateway"
	"github.com/iota-uz/hradmin/pkg/httpapi"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

const (
	codeInvalidBody = "INVALID_BODY"
	codeNotFound    = "NOT_FOUND"
	codeConflict    = "CONFLICT"
)

// conflictError reports a uniqueness violation on one field.
type conflictError struct {
	field string
}

func (e conflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.field)
}

// ResourceController serves one collection with GET, GET /{id}, POST, PUT /{id} and
// DELETE /{id}.
type ResourceController[T entity.Entity, D services.Draft[D]] struct {
	resource gateway.Resource
	prefix   string
	table    *Table[T]
	build    func(id entity.ID, d D) T
	// uniqueField names the draft field that must be unique; unique extracts it from a row.
	uniqueField string
	unique      func(T) string
}

func NewResourceController[T entity.Entity, D services.Draft[D]](
	prefix string,
	resource gateway.Resource,
	table *Table[T],
	build func(id entity.ID, d D) T,
	uniqueField string,
	unique func(T) string,
) *ResourceController[T, D] {
	return &ResourceController[T, D]{
		resource:    resource,
		prefix:      strings.TrimRight(prefix, "/"),
		table:       table,
		build:       build,
		uniqueField: uniqueField,
		unique:      unique,
	}
}

func (c *ResourceController[T, D]) Key() string {
	return c.prefix + c.resource.Path
}

func (c *ResourceController[T, D]) Register(r *mux.Router) {
	base := c.Key()
	r.HandleFunc(base, c.List).Methods(http.MethodGet)
	r.HandleFunc(base, c.Create).Methods(http.MethodPost)
	r.HandleFunc(base+"/{id}", c.Get).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}", c.Update).Methods(http.MethodPut)
	r.HandleFunc(base+"/{id}", c.Delete).Methods(http.MethodDelete)
}

// List answers with the envelope the real API uses for this resource.
func (c *ResourceController[T, D]) List(w http.ResponseWriter, r *http.Request) {
	rows := c.table.List()
	if c.resource.ListEnvelope == "" {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]T{c.resource.ListEnvelope: rows})
}

func (c *ResourceController[T, D]) Get(w http.ResponseWriter, r *http.Request) {
	id := entity.ID(mux.Vars(r)["id"])
	row, ok := c.table.Get(id)
	if !ok {
		c.notFound(w, r, id)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (c *ResourceController[T, D]) Create(w http.ResponseWriter, r *http.Request) {
	draft, ok := c.decodeDraft(w, r)
	if !ok {
		return
	}
	row, err := c.table.Insert(func(id entity.ID) (T, error) {
		row := c.build(id, draft)
		if c.taken(id, row) {
			return row, conflictError{field: c.uniqueField}
		}
		return row, nil
	})
	if err != nil {
		c.writeConflict(w, r, err)
		return
	}
	composables.UseLogger(r.Context()).WithField("id", row.EntityID()).Info("row created")
	writeJSON(w, http.StatusCreated, row)
}

func (c *ResourceController[T, D]) Update(w http.ResponseWriter, r *http.Request) {
	id := entity.ID(mux.Vars(r)["id"])
	if _, ok := c.table.Get(id); !ok {
		c.notFound(w, r, id)
		return
	}
	draft, ok := c.decodeDraft(w, r)
	if !ok {
		return
	}
	row, found, err := c.table.Replace(id, func(T) (T, error) {
		row := c.build(id, draft)
		if c.taken(id, row) {
			return row, conflictError{field: c.uniqueField}
		}
		return row, nil
	})
	if !found {
		c.notFound(w, r, id)
		return
	}
	if err != nil {
		c.writeConflict(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (c *ResourceController[T, D]) Delete(w http.ResponseWriter, r *http.Request) {
	id := entity.ID(mux.Vars(r)["id"])
	if !c.table.Delete(id) {
		c.notFound(w, r, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ResourceController[T, D]) decodeDraft(w http.ResponseWriter, r *http.Request) (D, bool) {
	var draft D
	if err := decodeJSON(r.Body, &draft); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, codeInvalidBody, "invalid json body")
		return draft, false
	}
	draft = draft.Normalized()
	if errs := draft.Validate(); len(errs) > 0 {
		_ = httpapi.WriteValidationError(w, serrors.CodeValidation, errs)
		return draft, false
	}
	return draft, true
}

// taken must run inside a table callback, which holds the table lock.
func (c *ResourceController[T, D]) taken(id entity.ID, row T) bool {
	if c.unique == nil {
		return false
	}
	want := c.unique(row)
	return c.table.any(id, func(other T) bool {
		return strings.EqualFold(c.unique(other), want)
	})
}

func (c *ResourceController[T, D]) notFound(w http.ResponseWriter, r *http.Request, id entity.ID) {
	writeAPIError(w, r, http.StatusNotFound, codeNotFound, fmt.Sprintf("%s %s not found", c.resource.Name, id))
}

func (c *ResourceController[T, D]) writeConflict(w http.ResponseWriter, r *http.Request, err error) {
	writeAPIError(w, r, http.StatusConflict, codeConflict, err.Error())
}

func decodeJSON(body io.ReadCloser, out any) error {
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok {
		meta["request_id"] = id
	}
	_ = httpapi.WriteError(w, status, code, message, meta)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
