package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

// Resource describes one REST collection.
type Resource struct {
	// Name is used in logs, metrics and error messages.
	Name string
	// Path is the collection path relative to the base URL, e.g. "/tribes".
	Path string
	// ListEnvelope is the JSON key wrapping the list response. Empty means the server
	// answers with a bare array.
	ListEnvelope string
}

func (r Resource) itemPath(id entity.ID) string {
	return strings.TrimRight(r.Path, "/") + "/" + url.PathEscape(id.String())
}

// Gateway is the request/response contract for one entity type.
type Gateway[T entity.Entity, D any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Get(ctx context.Context, id entity.ID) (T, error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id entity.ID, draft D) (T, error)
	Delete(ctx context.Context, id entity.ID) error
}

type RESTGateway[T entity.Entity, D any] struct {
	client   *Client
	resource Resource
}

func New[T entity.Entity, D any](client *Client, resource Resource) *RESTGateway[T, D] {
	return &RESTGateway[T, D]{client: client, resource: resource}
}

func (g *RESTGateway[T, D]) Resource() Resource {
	return g.resource
}

// List returns the full collection, unwrapping the resource's list envelope if it has one.
func (g *RESTGateway[T, D]) List(ctx context.Context, query url.Values) ([]T, error) {
	var raw json.RawMessage
	err := g.client.do(ctx, call{
		resource: g.resource.Name,
		op:       "list",
		method:   http.MethodGet,
		path:     g.resource.Path,
		query:    query,
		out:      &raw,
	})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw, g.resource.ListEnvelope)
	if err != nil {
		return nil, &Error{Op: "list", Resource: g.resource.Name, Status: http.StatusOK, Kind: ErrServer, Err: err}
	}
	return items, nil
}

func decodeList[T any](raw json.RawMessage, envelope string) ([]T, error) {
	items := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return items, nil
	}
	if envelope == "" {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrap(err, "decode list")
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrapf(err, "decode %q envelope", envelope)
	}
	inner, ok := wrapped[envelope]
	if !ok || string(inner) == "null" {
		return items, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, errors.Wrapf(err, "decode %q list", envelope)
	}
	return items, nil
}

func (g *RESTGateway[T, D]) Get(ctx context.Context, id entity.ID) (T, error) {
	var out T
	if id.IsZero() {
		return out, g.missingID("get")
	}
	err := g.client.do(ctx, call{
		resource: g.resource.Name,
		op:       "get",
		method:   http.MethodGet,
		path:     g.resource.itemPath(id),
		out:      &out,
	})
	return out, err
}

func (g *RESTGateway[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var out T
	err := g.client.do(ctx, call{
		resource: g.resource.Name,
		op:       "create",
		method:   http.MethodPost,
		path:     g.resource.Path,
		body:     draft,
		out:      &out,
	})
	return out, err
}

func (g *RESTGateway[T, D]) Update(ctx context.Context, id entity.ID, draft D) (T, error) {
	var out T
	if id.IsZero() {
		return out, g.missingID("update")
	}
	err := g.client.do(ctx, call{
		resource: g.resource.Name,
		op:       "update",
		method:   http.MethodPut,
		path:     g.resource.itemPath(id),
		body:     draft,
		out:      &out,
	})
	return out, err
}

func (g *RESTGateway[T, D]) Delete(ctx context.Context, id entity.ID) error {
	if id.IsZero() {
		return g.missingID("delete")
	}
	return g.client.do(ctx, call{
		resource: g.resource.Name,
		op:       "delete",
		method:   http.MethodDelete,
		path:     g.resource.itemPath(id),
	})
}

func (g *RESTGateway[T, D]) missingID(op string) error {
	return &Error{Op: op, Resource: g.resource.Name, Kind: ErrNotFound, Err: serrors.NewFieldRequiredError("id")}
}
