//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"kgraph-backend/application/ports"
	domainservices "kgraph-backend/domain/services"
)

// InitializeContainer assembles the graph core around host-supplied
// collaborators
func InitializeContainer(
	store ports.KnowledgeStore,
	projects domainservices.ProjectDirectory,
) (*Container, error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideLimitsWatcher,
		ProvideRegistry,
		ProvideCollector,
		ProvideSimilarity,
		ProvideResilientStore,
		ProvideBuilder,
		ProvideMerger,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
