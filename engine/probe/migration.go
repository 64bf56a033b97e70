package probe

import "sort"

// Migrator upgrades stored probe settings in place. It runs under the probe's
// lock and must not call back into the probe.
type Migrator interface {
	// Migrate upgrades settings saved at fromVersion.
	//
	// Parameters:
	//   - s: the stored settings, modified in place
	//   - fromVersion: the version the settings were saved at
	//
	// Returns:
	//   - int: the version the settings are at afterwards
	Migrate(s *Settings, fromVersion int) int
}

// MigrationStep upgrades settings to Version.
type MigrationStep struct {
	Version int
	Name    string
	Apply   func(s *Settings)
}

// Migration is an ordered list of versioned steps. Steps at or below the saved
// version are skipped, so applying a Migration to already migrated settings is a no-op.
type Migration struct {
	steps []MigrationStep
}

var _ Migrator = &Migration{}

// NewMigration creates a migration from steps, sorted by version.
//
// Parameters:
//   - steps: the migration steps
//
// Returns:
//   - *Migration: the migration
func NewMigration(steps ...MigrationStep) *Migration {
	sorted := append([]MigrationStep(nil), steps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Migration{steps: sorted}
}

// LatestVersion returns the version reached by applying every step.
func (m *Migration) LatestVersion() int {
	if len(m.steps) == 0 {
		return 0
	}
	return m.steps[len(m.steps)-1].Version
}

func (m *Migration) Migrate(s *Settings, fromVersion int) int {
	version := fromVersion
	for _, step := range m.steps {
		if step.Version <= version {
			continue
		}
		step.Apply(s)
		version = step.Version
	}
	return version
}

const (
	// MigrationVersionLightLayers assigns the default light layer to settings saved before light layers existed.
	MigrationVersionLightLayers = 1
	// MigrationVersionClampMultiplier clamps negative multipliers saved by older versions.
	MigrationVersionClampMultiplier = 2
)

// DefaultMigration is the migration run on first activation of every probe.
var DefaultMigration = NewMigration(
	MigrationStep{
		Version: MigrationVersionLightLayers,
		Name:    "light layers",
		Apply: func(s *Settings) {
			if s.Lighting.LightLayer == LightLayerNothing {
				s.Lighting.LightLayer = LightLayerDefault
			}
		},
	},
	MigrationStep{
		Version: MigrationVersionClampMultiplier,
		Name:    "clamp multiplier",
		Apply: func(s *Settings) {
			if s.Lighting.Multiplier < 0 {
				s.Lighting.Multiplier = 0
			}
		},
	},
)
