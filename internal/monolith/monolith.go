// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	ChainClients() *ChainClients
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// ChainClients lazily dials and caches one ethclient per configured chain.
type ChainClients struct {
	mu      sync.Mutex
	cfg     *config.ChainsConfig
	clients map[uint64]*ethclient.Client
}

// NewChainClients creates a ChainClients over the configured RPC endpoints.
func NewChainClients(cfg *config.ChainsConfig) *ChainClients {
	return &ChainClients{
		cfg:     cfg,
		clients: make(map[uint64]*ethclient.Client),
	}
}

// Client returns the node client for chainID, dialing on first use.
func (c *ChainClients) Client(chainID uint64) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[chainID]; ok {
		return client, nil
	}

	url := c.cfg.RPCURL(chainID)
	if url == "" {
		return nil, fmt.Errorf("no rpc url configured for chain %d", chainID)
	}
	client, err := ethclient.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing chain %d: %w", chainID, err)
	}
	c.clients[chainID] = client
	return client, nil
}

// Close closes all dialed clients.
func (c *ChainClients) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, client := range c.clients {
		client.Close()
	}
	c.clients = make(map[uint64]*ethclient.Client)
}

// App implements the Monolith interface.
type App struct {
	config       *config.Config
	logger       logger.LoggerInterface
	chainClients *ChainClients
	container    di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*App, error) {
	chainClients := NewChainClients(&cfg.Chains)

	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("chainClients", chainClients)

	return &App{
		config:       cfg,
		logger:       log,
		chainClients: chainClients,
		container:    container,
	}, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *App) ChainClients() *ChainClients {
	return a.chainClients
}

func (a *App) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *App) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *App) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *App) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *App) Close() error {
	a.chainClients.Close()
	return nil
}
