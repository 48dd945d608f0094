package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/hradmin/pkg/httpapi"
	"github.com/iota-uz/hradmin/pkg/logging"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

var tracer = otel.Tracer("hradmin-gateway")

type ClientOptions struct {
	BaseURL         string
	Authorization   string
	Timeout         time.Duration
	RequestIDHeader string
	HTTPClient      *http.Client
	Logger          *logrus.Entry
}

func (o *ClientOptions) setDefaults() {
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{
			Timeout: o.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}

// Client performs single-attempt JSON requests against the HR API. It never retries.
type Client struct {
	baseURL         *url.URL
	authorization   string
	httpClient      *http.Client
	requestIDHeader string
	log             *logrus.Entry
}

func NewClient(opts ClientOptions) (*Client, error) {
	opts.setDefaults()
	raw := strings.TrimSpace(opts.BaseURL)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base url: %q", raw)
	}
	return &Client{
		baseURL:         u,
		authorization:   strings.TrimSpace(opts.Authorization),
		httpClient:      opts.HTTPClient,
		requestIDHeader: opts.RequestIDHeader,
		log:             opts.Logger,
	}, nil
}

type call struct {
	resource string
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	out      any
}

// do sends one request and decodes a 2xx body into c.out. Every failure comes back as
// *Error.
func (c *Client) do(ctx context.Context, req call) (err error) {
	ctx, span := tracer.Start(ctx, "gateway."+req.resource+"."+req.op, trace.WithAttributes(
		attribute.String("http.method", req.method),
		attribute.String("hradmin.resource", req.resource),
	))
	started := time.Now()
	status := 0
	defer func() {
		m := getMetrics()
		result := "ok"
		if err != nil {
			result = resultLabel(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.End()
		m.requestsTotal.WithLabelValues(req.resource, req.op, result).Inc()
		m.requestDuration.WithLabelValues(req.resource, req.op).Observe(time.Since(started).Seconds())
	}()

	fail := func(kind *serrors.BaseError, status int, env *httpapi.ErrorEnvelope, cause error) error {
		return &Error{
			Op:       req.op,
			Resource: req.resource,
			Status:   status,
			Envelope: env,
			Kind:     kind,
			Err:      cause,
		}
	}

	u := *c.baseURL
	escaped := strings.TrimRight(u.EscapedPath(), "/") + req.path
	if u.Path, err = url.PathUnescape(escaped); err != nil {
		return fail(ErrNetwork, 0, nil, errors.Wrap(err, "request path"))
	}
	u.RawPath = escaped
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, mErr := json.Marshal(req.body)
		if mErr != nil {
			return fail(ErrServer, 0, nil, errors.Wrap(mErr, "json marshal request"))
		}
		body = bytes.NewReader(b)
	}

	httpReq, rErr := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if rErr != nil {
		return fail(ErrNetwork, 0, nil, errors.Wrap(rErr, "http request"))
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	if c.requestIDHeader != "" {
		httpReq.Header.Set(c.requestIDHeader, requestID)
	}
	if c.authorization != "" {
		httpReq.Header.Set("Authorization", c.authorization)
	}

	log := c.log.WithFields(logrus.Fields{
		"resource":   req.resource,
		"op":         req.op,
		"method":     req.method,
		"url":        u.String(),
		"request_id": requestID,
	})
	log.Debug("gateway request")

	resp, dErr := c.httpClient.Do(httpReq)
	if dErr != nil {
		log.WithError(dErr).Debug("gateway transport failure")
		return fail(ErrNetwork, 0, nil, errors.Wrap(dErr, "http do"))
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	respBody, rdErr := io.ReadAll(resp.Body)
	if rdErr != nil {
		return fail(ErrNetwork, status, nil, errors.Wrap(rdErr, "http read"))
	}
	log.WithFields(logrus.Fields{
		"status":   status,
		"duration": time.Since(started).String(),
	}).Debug("gateway response")

	if status < 200 || status >= 300 {
		var env httpapi.ErrorEnvelope
		if jErr := json.Unmarshal(respBody, &env); jErr == nil && strings.TrimSpace(env.Code+env.Message) != "" {
			return fail(kindForStatus(status), status, &env, nil)
		}
		return fail(kindForStatus(status), status, nil, errors.Errorf("body=%s", truncate(strings.TrimSpace(string(respBody)), 512)))
	}

	if req.out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if jErr := json.Unmarshal(respBody, req.out); jErr != nil {
		return fail(ErrServer, status, nil, errors.Wrap(jErr, "json unmarshal response"))
	}
	return nil
}

func resultLabel(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Kind != nil {
		return strings.ToLower(strings.TrimPrefix(gwErr.Kind.Code, "GATEWAY_"))
	}
	return "error"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
