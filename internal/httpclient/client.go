// Package httpclient provides an instrumented HTTP client with OTEL tracing
// and metrics, shared by all upstream protocol clients.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRequestTimeout  = 10 * time.Second
	defaultDialKeepAlive   = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute

	metricRequestCounter = "http_client_requests_total"
)

// Client builds and executes requests against one upstream provider.
type Client interface {
	// NewRequest creates a request builder inheriting the client defaults.
	NewRequest() Request
	// Do executes a raw http.Request.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ResponseErrorHandler inspects a completed response and returns a non-nil
// error to fail the request (e.g. mapping upstream status codes).
type ResponseErrorHandler func(statusCode int, body []byte) error

// Options holds client configuration.
type Options struct {
	providerName   string
	baseURL        string
	headers        map[string]string
	requestTimeout time.Duration
	transport      http.RoundTripper
	tracer         trace.Tracer
	logBodies      bool
}

// Option configures a Client.
type Option func(*Options)

// WithProviderName sets the provider label used in metrics and traces.
func WithProviderName(name string) Option {
	return func(o *Options) { o.providerName = name }
}

// WithBaseURL sets the base URL prepended to relative request paths.
func WithBaseURL(url string) Option {
	return func(o *Options) { o.baseURL = url }
}

// WithHeaders sets default headers applied to every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *Options) { o.headers = headers }
}

// WithRequestTimeout overrides the default 10s per-request timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.requestTimeout = timeout }
}

// WithTransport sets a custom RoundTripper. Mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.transport = rt }
}

// WithBodyTracing records request/response bodies as span events.
func WithBodyTracing(tracer trace.Tracer) Option {
	return func(o *Options) {
		o.tracer = tracer
		o.logBodies = true
	}
}

type instrumentedClient struct {
	client         *http.Client
	requestCounter metric.Int64Counter
	providerName   string
	tracer         trace.Tracer
	baseURL        string
	defaultHeaders map[string]string
	logBodies      bool
}

// New creates an instrumented HTTP client.
func New(opts ...Option) (Client, error) {
	options := &Options{requestTimeout: defaultRequestTimeout}
	for _, o := range opts {
		o(options)
	}

	transport := options.transport
	if transport == nil {
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		}
	}

	httpClient := &http.Client{
		Timeout: options.requestTimeout,
		Transport: otelhttp.NewTransport(
			transport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	providerName := options.providerName
	if providerName == "" {
		providerName = "default"
	}

	meter := otel.GetMeterProvider().Meter(
		"instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", providerName)),
	)
	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	tracer := options.tracer
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer("instrumented_http_client")
	}

	return &instrumentedClient{
		client:         httpClient,
		requestCounter: requestCounter,
		providerName:   providerName,
		tracer:         tracer,
		baseURL:        options.baseURL,
		defaultHeaders: options.headers,
		logBodies:      options.logBodies,
	}, nil
}

func (c *instrumentedClient) NewRequest() Request {
	headers := make(map[string]string, len(c.defaultHeaders))
	for k, v := range c.defaultHeaders {
		headers[k] = v
	}

	return &requestBuilder{
		client:         c.client,
		requestCounter: c.requestCounter,
		providerName:   c.providerName,
		tracer:         c.tracer,
		baseURL:        c.baseURL,
		headers:        headers,
		logBodies:      c.logBodies,
	}
}

func (c *instrumentedClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(ctx))
}
