// Package registry maintains the directory of target converters: lazy
// instantiation, capability caching, component-type lookup, and best-target
// recommendation.
package registry

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// capabilityCacheSize bounds the LRU holding capability descriptors. The
// target set is small; the bound only guards against unbounded plugin
// registration.
const capabilityCacheSize = 32

// Constructor builds a converter instance on first resolution.
type Constructor func() convert.Converter

// Registry is constructed once and shared by reference. Registration must
// happen before concurrent resolution begins; the instance and capability
// caches are write-once-then-read per target.
type Registry struct {
	mu           sync.RWMutex
	order        []convert.Target
	constructors map[convert.Target]Constructor
	instances    map[convert.Target]convert.Converter
	byComponent  map[string][]convert.Target

	caps   *lru.Cache[convert.Target, convert.Capabilities]
	logger *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	caps, _ := lru.New[convert.Target, convert.Capabilities](capabilityCacheSize)
	return &Registry{
		constructors: make(map[convert.Target]Constructor),
		instances:    make(map[convert.Target]convert.Converter),
		byComponent:  make(map[string][]convert.Target),
		caps:         caps,
		logger:       logger,
	}
}

// Register records a converter constructor for a target. Overwriting an
// existing registration is allowed but warned about, not failed.
func (r *Registry) Register(target convert.Target, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.constructors[target]; exists || r.instances[target] != nil {
		r.logger.Warn("overwriting converter registration", zap.String("target", target.String()))
		delete(r.instances, target)
		r.caps.Remove(target)
	} else {
		r.order = append(r.order, target)
	}
	r.constructors[target] = ctor
}

// RegisterInstance records an already-built converter instance.
func (r *Registry) RegisterInstance(c convert.Converter) {
	target := c.Target()
	r.mu.Lock()
	if _, exists := r.constructors[target]; exists || r.instances[target] != nil {
		r.logger.Warn("overwriting converter registration", zap.String("target", target.String()))
	} else {
		r.order = append(r.order, target)
	}
	r.instances[target] = c
	r.mu.Unlock()
	r.cacheCapabilities(c)
}

// Converter resolves a converter for the target, instantiating lazily from
// a registered constructor on first use. Unknown targets return (nil,
// false) rather than an error so capability probing can fail soft.
func (r *Registry) Converter(target convert.Target) (convert.Converter, bool) {
	r.mu.RLock()
	if c, ok := r.instances[target]; ok {
		r.mu.RUnlock()
		return c, true
	}
	ctor, ok := r.constructors[target]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	if c, exists := r.instances[target]; exists { // lost the race
		r.mu.Unlock()
		return c, true
	}
	c := ctor()
	r.instances[target] = c
	r.mu.Unlock()

	r.logger.Debug("instantiated converter", zap.String("target", target.String()))
	r.cacheCapabilities(c)
	return c, true
}

// Capabilities returns the cached capability descriptor for a target,
// resolving the converter on first request.
func (r *Registry) Capabilities(target convert.Target) (convert.Capabilities, bool) {
	if caps, ok := r.caps.Get(target); ok {
		return caps, true
	}
	c, ok := r.Converter(target)
	if !ok {
		return convert.Capabilities{}, false
	}
	return c.Capabilities(), true
}

// AvailableTargets lists registered targets in registration order.
func (r *Registry) AvailableTargets() []convert.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]convert.Target, len(r.order))
	copy(out, r.order)
	return out
}

// TargetsSupporting returns the targets whose support table resolves the
// given component type, in registration order. All registered converters are
// resolved so their capability entries populate the reverse index.
func (r *Registry) TargetsSupporting(componentType string) []convert.Target {
	for _, t := range r.AvailableTargets() {
		r.Converter(t) // populate index
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	supported := r.byComponent[componentType]
	out := make([]convert.Target, len(supported))
	copy(out, supported)
	return out
}

func (r *Registry) cacheCapabilities(c convert.Converter) {
	caps := c.Capabilities()
	target := c.Target()
	r.caps.Add(target, caps)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range caps.SupportedComponents {
		if containsTarget(r.byComponent[ct], target) {
			continue
		}
		r.byComponent[ct] = append(r.byComponent[ct], target)
	}
}

func containsTarget(ts []convert.Target, t convert.Target) bool {
	for _, e := range ts {
		if e == t {
			return true
		}
	}
	return false
}

// Recommendation is the outcome of BestTargetFor.
type Recommendation struct {
	Target  convert.Target
	Score   float64 // fraction of component types supported, 0..1
	Full    bool    // every component type resolves
	Warning string  // set for partial matches
}

// BestTargetFor scores each registered target by the fraction of the
// specification's component types it supports. A target supporting every
// type wins outright; otherwise the highest-scoring partial match is
// returned with a warning. Ties break by registration order. With no
// support anywhere there is no recommendation — and no error.
func (r *Registry) BestTargetFor(s *spec.Specification) (Recommendation, bool) {
	types := s.ComponentTypes()
	if len(types) == 0 {
		return Recommendation{}, false
	}

	best := Recommendation{Score: 0}
	found := false
	for _, target := range r.AvailableTargets() {
		c, ok := r.Converter(target)
		if !ok {
			continue
		}
		supported := 0
		for _, t := range types {
			if c.SupportsComponentType(t) {
				supported++
			}
		}
		if supported == 0 {
			continue
		}
		score := float64(supported) / float64(len(types))
		if score == 1 {
			return Recommendation{Target: target, Score: 1, Full: true}, true
		}
		if !found || score > best.Score {
			best = Recommendation{
				Target:  target,
				Score:   score,
				Warning: "no registered target supports every component type; best partial match returned",
			}
			found = true
		}
	}
	return best, found
}
