package probe_system

import "github.com/Carmen-Shannon/oxy-probe/engine/profiler"

// SystemBuilderOption is a functional option for configuring a System.
type SystemBuilderOption func(s *systemImpl)

// WithCullWorkers sets the number of worker goroutines used by Cull.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of cull workers (minimum 1)
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithCullWorkers(n int) SystemBuilderOption {
	return func(s *systemImpl) {
		if n < 1 {
			n = 1
		}
		s.cullWorkers = n
	}
}

// WithCullBatchSize sets how many probes a single cull task tests.
// Defaults to DefaultCullBatchSize.
//
// Parameters:
//   - n: the batch size (minimum 1)
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithCullBatchSize(n int) SystemBuilderOption {
	return func(s *systemImpl) {
		if n < 1 {
			n = 1
		}
		s.cullBatchSize = n
	}
}

// WithProfiler attaches a profiler ticked after every Cull.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SystemBuilderOption {
	return func(s *systemImpl) {
		s.profiler = p
	}
}
