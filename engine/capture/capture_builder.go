package capture

// UpdaterBuilderOption is a functional option for configuring an Updater.
type UpdaterBuilderOption func(u *Updater)

// WithAllocator sets the allocator used when a probe has no usable target.
//
// Parameters:
//   - a: the allocator
//
// Returns:
//   - UpdaterBuilderOption: option function to apply
func WithAllocator(a Allocator) UpdaterBuilderOption {
	return func(u *Updater) {
		u.allocator = a
	}
}

// WithResolution sets the target sizes of reflection (per cube face) and planar captures.
// Zero keeps the corresponding default.
//
// Parameters:
//   - cube: face size of reflection probe targets
//   - planar: size of planar probe targets
//
// Returns:
//   - UpdaterBuilderOption: option function to apply
func WithResolution(cube, planar uint32) UpdaterBuilderOption {
	return func(u *Updater) {
		if cube > 0 {
			u.cubeResolution = cube
		}
		if planar > 0 {
			u.planarResolution = planar
		}
	}
}
