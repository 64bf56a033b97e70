// Package probe_system is the central tracking system for active probes. Probe
// lifecycles register and unregister with it; the renderer queries it each frame
// for the probes that survive culling.
package probe_system

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/log"
	"github.com/Carmen-Shannon/oxy-probe/engine/probe"
	"github.com/Carmen-Shannon/oxy-probe/engine/profiler"
	"github.com/olekukonko/tablewriter"
)

var logger = log.New("probe_system")

// DefaultCullBatchSize is the number of probes tested per worker task.
const DefaultCullBatchSize = 64

type systemImpl struct {
	mu *sync.Mutex

	probes []probe.Probe
	index  map[uint64]int

	cullWorkers   int
	cullBatchSize int
	cullPool      worker.DynamicWorkerPool
	profiler      *profiler.Profiler
}

// System tracks the set of active probes. Registration order is preserved and is
// the order every query returns probes in.
// Thread-safe for concurrent access.
type System interface {
	probe.Registry

	// Has reports whether the probe is registered.
	//
	// Parameters:
	//   - p: the probe
	//
	// Returns:
	//   - bool: true if registered
	Has(p probe.Probe) bool

	// Count returns the number of registered probes.
	//
	// Returns:
	//   - int: the count
	Count() int

	// Probes returns a snapshot of the registered probes.
	//
	// Returns:
	//   - []probe.Probe: the probes in registration order
	Probes() []probe.Probe

	// RealtimeProbes returns the registered probes currently in ModeRealtime.
	//
	// Returns:
	//   - []probe.Probe: the realtime probes in registration order
	RealtimeProbes() []probe.Probe

	// PlanarProbes returns the registered planar probes.
	//
	// Returns:
	//   - []probe.PlanarProbe: the planar probes in registration order
	PlanarProbes() []probe.PlanarProbe

	// Cull returns the registered probes whose influence intersects the frustum.
	// Sphere tests are spread across the cull worker pool. Planar probes are tested
	// with the sphere cached by their last PrepareCulling.
	//
	// Parameters:
	//   - frustum: the camera frustum
	//
	// Returns:
	//   - []probe.Probe: the visible probes in registration order
	Cull(frustum common.Frustum) []probe.Probe

	// WriteTable writes a table of the registered probes to w.
	//
	// Parameters:
	//   - w: the destination
	WriteTable(w io.Writer)
}

var _ System = &systemImpl{}

// NewSystem creates an empty probe tracking system.
//
// Parameters:
//   - options: functional options to configure the system
//
// Returns:
//   - System: the system
func NewSystem(options ...SystemBuilderOption) System {
	s := &systemImpl{
		mu:            &sync.Mutex{},
		index:         make(map[uint64]int),
		cullWorkers:   max(runtime.NumCPU()-1, 1),
		cullBatchSize: DefaultCullBatchSize,
	}
	for _, option := range options {
		option(s)
	}

	// Initialize the cull pool after options so WithCullWorkers can override the default.
	s.cullPool = worker.NewDynamicWorkerPool(s.cullWorkers, 256, 1*time.Second)
	return s
}

func (s *systemImpl) RegisterProbe(p probe.Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ID()]; ok {
		logger.Warningf("probe %d is already registered", p.ID())
		return
	}
	s.index[p.ID()] = len(s.probes)
	s.probes = append(s.probes, p)
	logger.Debugf("registered probe %d (%s, %s)", p.ID(), p.Type(), p.Mode())
}

func (s *systemImpl) UnregisterProbe(p probe.Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[p.ID()]
	if !ok {
		return
	}
	delete(s.index, p.ID())
	copy(s.probes[i:], s.probes[i+1:])
	s.probes[len(s.probes)-1] = nil
	s.probes = s.probes[:len(s.probes)-1]
	for j := i; j < len(s.probes); j++ {
		s.index[s.probes[j].ID()] = j
	}
	logger.Debugf("unregistered probe %d", p.ID())
}

func (s *systemImpl) Has(p probe.Probe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[p.ID()]
	return ok
}

func (s *systemImpl) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.probes)
}

func (s *systemImpl) Probes() []probe.Probe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]probe.Probe(nil), s.probes...)
}

func (s *systemImpl) RealtimeProbes() []probe.Probe {
	var out []probe.Probe
	for _, p := range s.Probes() {
		if p.Mode() == probe.ModeRealtime {
			out = append(out, p)
		}
	}
	return out
}

func (s *systemImpl) PlanarProbes() []probe.PlanarProbe {
	var out []probe.PlanarProbe
	for _, p := range s.Probes() {
		if pp, ok := p.(probe.PlanarProbe); ok {
			out = append(out, pp)
		}
	}
	return out
}

func (s *systemImpl) Cull(frustum common.Frustum) []probe.Probe {
	probes := s.Probes()
	visible := make([]bool, len(probes))

	// Each task owns a disjoint range of visible, so no further synchronization is
	// needed beyond the WaitGroup barrier.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(probes); start += s.cullBatchSize {
		end := min(start+s.cullBatchSize, len(probes))
		wg.Add(1)
		lo, hi := start, end
		id := taskID
		taskID++
		s.cullPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					visible[i] = frustum.IntersectsSphere(cullingSphere(probes[i]))
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	out := make([]probe.Probe, 0, len(probes))
	for i, p := range probes {
		if visible[i] {
			out = append(out, p)
		}
	}

	if s.profiler != nil {
		s.profiler.Tick(len(probes), len(out))
	}
	return out
}

func cullingSphere(p probe.Probe) common.BoundingSphere {
	if pp, ok := p.(probe.PlanarProbe); ok && pp.Prepared() {
		return pp.CullingSphere()
	}
	return p.BoundingSphere()
}

func (s *systemImpl) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"ID", "Type", "Mode", "Realtime", "Light Layers", "Infinite", "Last Frame"})
	for _, p := range s.Probes() {
		lastFrame := "never"
		if f := p.LastRenderedFrame(); f != probe.NeverRendered {
			lastFrame = fmt.Sprint(f)
		}
		table.Append([]string{
			fmt.Sprint(p.ID()),
			p.Type().String(),
			p.Mode().String(),
			p.RealtimeMode().String(),
			fmt.Sprintf("0x%02X", p.LightLayersAsUInt()),
			fmt.Sprint(p.IsProjectionInfinite()),
			lastFrame,
		})
	}
	table.Render()
}
