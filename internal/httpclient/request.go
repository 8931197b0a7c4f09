package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nvidaurre/swaprouter/internal/apperror"
)

// Request is a fluent builder for a single HTTP call. The zero result target
// is optional; when set with SetResult the response body is JSON-decoded
// into it.
type Request interface {
	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	SetQueryParams(params map[string]string) Request
	SetBody(body any) Request
	SetResult(result any) Request
	SetErrorHandler(handler ResponseErrorHandler) Request

	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string) (*Response, error)
}

// Response carries the raw outcome of an executed request.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type requestBuilder struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	providerName   string
	tracer         trace.Tracer
	baseURL        string
	headers        map[string]string
	query          url.Values
	body           any
	result         any
	errorHandler   ResponseErrorHandler
	logBodies      bool
}

func (r *requestBuilder) SetHeader(key, value string) Request {
	r.headers[key] = value
	return r
}

func (r *requestBuilder) SetQueryParam(key, value string) Request {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, value)
	return r
}

func (r *requestBuilder) SetQueryParams(params map[string]string) Request {
	for k, v := range params {
		r.SetQueryParam(k, v)
	}
	return r
}

func (r *requestBuilder) SetBody(body any) Request {
	r.body = body
	return r
}

func (r *requestBuilder) SetResult(result any) Request {
	r.result = result
	return r
}

func (r *requestBuilder) SetErrorHandler(handler ResponseErrorHandler) Request {
	r.errorHandler = handler
	return r
}

func (r *requestBuilder) Get(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodGet, path)
}

func (r *requestBuilder) Post(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodPost, path)
}

func (r *requestBuilder) execute(ctx context.Context, method, path string) (*Response, error) {
	fullURL := r.buildURL(path)

	var bodyReader io.Reader
	var bodyBytes []byte
	if r.body != nil {
		var err error
		bodyBytes, err = json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.logBodies {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, fmt.Sprintf("%s %s", method, path))
		defer span.End()
		if len(bodyBytes) > 0 {
			span.AddEvent("request.body", trace.WithAttributes(
				attribute.String("body", string(bodyBytes)),
			))
		}
		req = req.WithContext(ctx)
	}

	resp, err := r.client.Do(req)

	statusLabel := "error"
	if resp != nil {
		statusLabel = fmt.Sprintf("%d", resp.StatusCode)
	}
	r.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", r.providerName),
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", statusLabel),
	))

	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    resp.Header,
	}

	if r.logBodies {
		span := trace.SpanFromContext(ctx)
		span.AddEvent("response.body", trace.WithAttributes(
			attribute.Int("status", resp.StatusCode),
			attribute.String("body", string(respBody)),
		))
	}

	if r.errorHandler != nil {
		if handlerErr := r.errorHandler(resp.StatusCode, respBody); handlerErr != nil {
			return response, handlerErr
		}
	} else if !response.IsSuccess() {
		return response, apperror.New(apperror.CodeAggregatorAPIError,
			apperror.WithStatusCode(resp.StatusCode),
			apperror.WithContext(fmt.Sprintf("%s %s %s returned %d", r.providerName, method, path, resp.StatusCode)),
		)
	}

	if r.result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, r.result); err != nil {
			return response, fmt.Errorf("decoding response body: %w", err)
		}
	}

	return response, nil
}

func (r *requestBuilder) buildURL(path string) string {
	full := path
	if r.baseURL != "" && !strings.HasPrefix(path, "http") {
		full = strings.TrimSuffix(r.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if len(r.query) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + r.query.Encode()
	}
	return full
}
