package breaker

import "sync"

// Registry hands out one shared breaker per (service, operation) pair.
// Breakers are created lazily and live for the process lifetime, so all
// concurrent requests against the same backend operation observe the same
// circuit state.
type Registry struct {
	mu       sync.Mutex
	cfg      Config
	breakers map[string]*Breaker
}

// NewRegistry creates a registry whose breakers share cfg
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for the given service and operation, creating it
// on first use.
func (r *Registry) Get(service, operation string) *Breaker {
	key := service + "." + operation

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[key]
	if !ok {
		b = New(r.cfg)
		r.breakers[key] = b
	}
	return b
}

// States returns a snapshot of every breaker's state keyed by
// "service.operation". Used for metrics export.
func (r *Registry) States() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]State, len(r.breakers))
	for key, b := range r.breakers {
		out[key] = b.State()
	}
	return out
}
