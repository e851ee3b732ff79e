package agent

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"agentchat/pkg/config"
)

// ErrUnknownBackend is returned when no factory is registered for a backend name.
var ErrUnknownBackend = errors.New("unknown agent backend")

// BackendFactory creates an Agent from config.
type BackendFactory func(cfg config.AgentConfig) (Agent, error)

// BackendInfo describes a registered backend.
type BackendInfo struct {
	Name        string
	Description string
	RequiresKey bool
}

// Registry manages backend factories and instantiation.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
	info      map[string]BackendInfo
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]BackendFactory),
		info:      make(map[string]BackendInfo),
	}
}

// Register adds a backend factory to the registry.
func (r *Registry) Register(info BackendInfo, factory BackendFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[info.Name] = factory
	r.info[info.Name] = info
}

// New creates the agent selected by cfg.Backend.
func (r *Registry) New(cfg config.AgentConfig) (Agent, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Backend]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}

	return factory(cfg)
}

// ListBackends returns all registered backends sorted by name.
func (r *Registry) ListBackends() []BackendInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backends := make([]BackendInfo, 0, len(r.info))
	for _, info := range r.info {
		backends = append(backends, info)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i].Name < backends[j].Name })
	return backends
}

// IsRegistered checks if a backend is registered.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// DefaultRegistry holds the built-in backends.
var DefaultRegistry = NewRegistry()

// Register registers a backend with the default registry.
func Register(info BackendInfo, factory BackendFactory) {
	DefaultRegistry.Register(info, factory)
}

// New creates an agent from the default registry.
func New(cfg config.AgentConfig) (Agent, error) {
	return DefaultRegistry.New(cfg)
}

// ListBackends returns all backends from the default registry.
func ListBackends() []BackendInfo {
	return DefaultRegistry.ListBackends()
}

// ValidateBackend checks whether name is a backend of the default registry.
func ValidateBackend(name string) bool {
	return DefaultRegistry.IsRegistered(name)
}
