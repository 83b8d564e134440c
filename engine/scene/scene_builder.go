package scene

import "math/rand/v2"

// StateBuilderOption is a functional option for configuring a State.
// Use the With* functions to create options.
type StateBuilderOption func(s *State)

// WithSettings replaces the control settings.
//
// Parameters:
//   - settings: the cube and IOD control settings
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithSettings(settings Settings) StateBuilderOption {
	return func(s *State) {
		s.settings = settings
	}
}

// WithRand sets the random source used to pick the failed projector.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithRand(rng *rand.Rand) StateBuilderOption {
	return func(s *State) {
		s.rng = rng
	}
}

// WithSeed seeds a deterministic random source for the failed projector pick.
//
// Parameters:
//   - seed: the PCG seed
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithSeed(seed uint64) StateBuilderOption {
	return func(s *State) {
		s.rng = rand.New(rand.NewPCG(seed, seed))
	}
}
