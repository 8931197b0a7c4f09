package metrics

// Provider identifies a metric exporter backend.
type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "otelCollector"
)

// Config holds metric provider configuration.
type Config struct {
	ServiceName string
	Providers   []ProviderCfg
}

// ProviderCfg configures one exporter backend.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// OptionFn configures the metric provider.
type OptionFn func(config Config) Config

// WithServiceName sets the service name resource attribute.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

// WithPrometheus adds a Prometheus pull exporter.
func WithPrometheus() OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, ProviderCfg{Provider: PrometheusProvider})
		return config
	}
}

// WithOtelCollector adds an OTLP gRPC push exporter.
func WithOtelCollector(endpoint string, headers map[string]string, insecure bool) OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, ProviderCfg{
			Provider: OtelCollector,
			Endpoint: endpoint,
			Headers:  headers,
			Insecure: insecure,
		})
		return config
	}
}
