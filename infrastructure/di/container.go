package di

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kgraph-backend/application/ports"
	"kgraph-backend/application/services"
	domainservices "kgraph-backend/domain/services"
	"kgraph-backend/infrastructure/config"
	"kgraph-backend/infrastructure/persistence/resilient"
	"kgraph-backend/pkg/observability"
)

// Container holds the assembled graph core. Collaborators (the knowledge
// store and project directory) are supplied by the host; everything else
// is constructed here.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Limits     *config.LimitsWatcher
	Registry   *prometheus.Registry
	Metrics    *observability.Collector
	Similarity *domainservices.SimilarityCalculator
	Builder    *services.GraphBuilder
	Merger     *services.GraphMerger
}

// graphDefaults returns the effective graph defaults: the static
// configuration overlaid with the limits file's current values when a
// watcher is running. Zero values in the file keep the static defaults.
func (c *Container) graphDefaults() config.GraphConfig {
	graph := c.Config.Graph
	if c.Limits == nil {
		return graph
	}

	limits := c.Limits.Current()
	if limits == nil {
		return graph
	}

	if limits.Limits.MaxImplicitRelationships > 0 {
		graph.MaxImplicitRelationships = limits.Limits.MaxImplicitRelationships
	}
	if limits.Limits.MaxCrossGraphRelationships > 0 {
		graph.MaxCrossGraphRelationships = limits.Limits.MaxCrossGraphRelationships
	}
	if limits.Limits.MaxComparisons > 0 {
		graph.MaxComparisons = limits.Limits.MaxComparisons
	}
	if limits.Thresholds.MinImplicitSimilarity > 0 {
		graph.MinImplicitSimilarity = limits.Thresholds.MinImplicitSimilarity
	}
	if limits.Thresholds.MinCrossGraphSimilarity > 0 {
		graph.MinCrossGraphSimilarity = limits.Thresholds.MinCrossGraphSimilarity
	}
	if limits.Thresholds.MinRelationshipStrength > 0 {
		graph.MinRelationshipStrength = limits.Thresholds.MinRelationshipStrength
	}

	return graph
}

// NewBuildOptions returns build options seeded from the effective defaults
func (c *Container) NewBuildOptions() *services.BuildOptions {
	graph := c.graphDefaults()
	opts := services.DefaultBuildOptions()
	opts.MinImplicitSimilarity = graph.MinImplicitSimilarity
	opts.MaxImplicitRelationships = graph.MaxImplicitRelationships
	opts.MinRelationshipStrength = graph.MinRelationshipStrength
	opts.MaxComparisons = graph.MaxComparisons
	return opts
}

// NewMergeOptions returns merge options seeded from the effective defaults
func (c *Container) NewMergeOptions() *services.MergeOptions {
	graph := c.graphDefaults()
	opts := services.DefaultMergeOptions()
	opts.MinCrossGraphSimilarity = graph.MinCrossGraphSimilarity
	opts.MaxCrossGraphRelationships = graph.MaxCrossGraphRelationships
	opts.MinRelationshipStrength = graph.MinRelationshipStrength
	opts.MaxComparisons = graph.MaxComparisons
	return opts
}

// Close releases the container's background resources
func (c *Container) Close() {
	if c.Limits != nil {
		c.Limits.Stop()
	}
}

// Providers

// ProvideConfig loads configuration from the environment
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds a zap logger matching the configured environment
// and level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideLimitsWatcher starts the dynamic limits watcher when a limits
// file is configured; without one the static defaults apply
func ProvideLimitsWatcher(cfg *config.Config, logger *zap.Logger) (*config.LimitsWatcher, error) {
	if cfg.LimitsFile == "" {
		return nil, nil
	}

	watcher, err := config.NewLimitsWatcher(cfg.LimitsFile, logger)
	if err != nil {
		return nil, err
	}
	watcher.Start()
	return watcher, nil
}

// ProvideRegistry creates the metrics registry owned by this container
func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideCollector creates the metrics collector; disabled metrics yield
// a nil collector, which the services treat as a no-op
func ProvideCollector(cfg *config.Config, registry *prometheus.Registry) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("kgraph", registry)
}

// ProvideSimilarity creates the similarity calculator
func ProvideSimilarity(projects domainservices.ProjectDirectory) *domainservices.SimilarityCalculator {
	return domainservices.NewSimilarityCalculator(nil, projects)
}

// ProvideResilientStore wraps the host-supplied store with a circuit breaker
func ProvideResilientStore(cfg *config.Config, store ports.KnowledgeStore, logger *zap.Logger) *resilient.KnowledgeStore {
	breakerCfg := resilient.BreakerConfig{
		Name:             "knowledge-store",
		MaxRequests:      cfg.Store.BreakerMaxRequests,
		Interval:         time.Duration(cfg.Store.BreakerIntervalSeconds) * time.Second,
		Timeout:          time.Duration(cfg.Store.BreakerTimeoutSeconds) * time.Second,
		FailureThreshold: cfg.Store.BreakerFailureThreshold,
		MinRequests:      cfg.Store.BreakerMinRequests,
	}
	return resilient.NewKnowledgeStore(store, breakerCfg, logger)
}

// ProvideBuilder creates the graph builder on top of the resilient store
func ProvideBuilder(
	store *resilient.KnowledgeStore,
	similarity *domainservices.SimilarityCalculator,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.GraphBuilder {
	return services.NewGraphBuilder(store, similarity, logger, metrics)
}

// ProvideMerger creates the graph merger
func ProvideMerger(
	similarity *domainservices.SimilarityCalculator,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.GraphMerger {
	return services.NewGraphMerger(similarity, logger, metrics)
}
