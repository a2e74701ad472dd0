package searcher

import "birdseye/env"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const Discount = 0.95 // Per-step reward discount

const Horizon = 20 // Maximum steps per simulated episode, tree and rollout combined

// Sampler draws world states from the planner's current belief.
type Sampler interface {
	Sample() env.State
}
