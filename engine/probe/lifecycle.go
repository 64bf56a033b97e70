package probe

import "sync"

// Registry is the central probe tracking system queried by culling and lighting each frame.
type Registry interface {
	// RegisterProbe adds the probe to future culling and lighting passes.
	//
	// Parameters:
	//   - p: the probe
	RegisterProbe(p Probe)

	// UnregisterProbe removes the probe. It must tolerate probes that are not registered.
	//
	// Parameters:
	//   - p: the probe
	UnregisterProbe(p Probe)
}

// LifecycleBuilderOption is a function that configures a Lifecycle during construction.
type LifecycleBuilderOption func(*Lifecycle)

// WithMigrator replaces DefaultMigration as the migrator run on first activation.
//
// Parameters:
//   - m: the migrator, nil to skip migration
//
// Returns:
//   - LifecycleBuilderOption: a function that applies the migrator to a Lifecycle
func WithMigrator(m Migrator) LifecycleBuilderOption {
	return func(l *Lifecycle) {
		l.migrator = m
	}
}

// Lifecycle announces a probe to a Registry as it is enabled, disabled and edited.
// From the registry's point of view the probe is either registered or not:
// Activate registers it, Deactivate unregisters it and Revalidate refreshes the
// registration of an active probe.
type Lifecycle struct {
	mu       *sync.Mutex
	probe    Probe
	registry Registry
	migrator Migrator
	active   bool
}

// NewLifecycle creates the lifecycle of a probe. The probe starts inactive.
//
// Parameters:
//   - p: the probe, dispatched through its own PrepareCulling
//   - registry: the tracking system the probe is announced to
//   - opts: variadic list of LifecycleBuilderOption functions
//
// Returns:
//   - *Lifecycle: the lifecycle
func NewLifecycle(p Probe, registry Registry, opts ...LifecycleBuilderOption) *Lifecycle {
	l := &Lifecycle{
		mu:       &sync.Mutex{},
		probe:    p,
		registry: registry,
		migrator: DefaultMigration,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Probe returns the probe driven by this lifecycle.
func (l *Lifecycle) Probe() Probe {
	return l.probe
}

// Active reports whether the probe is currently enabled.
func (l *Lifecycle) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Activate enables the probe: migrates its settings on the first call, clears the
// activation render flag, prepares culling and registers it. Activating an active
// probe does nothing.
func (l *Lifecycle) Activate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active {
		return
	}

	l.probe.Migrate(l.migrator)
	l.probe.SetWasRenderedAfterOnEnable(false)
	l.probe.PrepareCulling()
	l.registry.RegisterProbe(l.probe)
	l.active = true
	logger.Debugf("probe %d: activated", l.probe.ID())
}

// Deactivate disables the probe and unregisters it. Safe to call on an inactive probe.
func (l *Lifecycle) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.registry.UnregisterProbe(l.probe)
	l.active = false
	logger.Debugf("probe %d: deactivated", l.probe.ID())
}

// Revalidate drops the registration after a configuration change and registers the
// probe again if it is active, so the registry never holds a pre-edit registration.
func (l *Lifecycle) Revalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.registry.UnregisterProbe(l.probe)
	if l.active {
		l.registry.RegisterProbe(l.probe)
	}
}
