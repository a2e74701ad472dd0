package searcher

import (
	"sync"

	"birdseye/env"

	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

type MCTS struct {
	model        env.Model
	simulations  int
	depth        int
	horizon      int
	discount     float64
	cSquared     float64
	goroutines   int
	newCollector func() Collector
}

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

func WithDepth(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

func WithHorizon(horizon int) Option {
	return func(m *MCTS) {
		if horizon > 0 {
			m.horizon = horizon
		}
	}
}

func WithDiscount(discount float64) Option {
	return func(m *MCTS) {
		if discount > 0 && discount <= 1 {
			m.discount = discount
		}
	}
}

func WithExploration(cSquared float64) Option {
	return func(m *MCTS) {
		if cSquared >= 0 {
			m.cSquared = cSquared
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.newCollector = NewCollector
	}
}

func NewMCTS(model env.Model, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		model:        model,
		depth:        10,
		horizon:      Horizon,
		discount:     Discount,
		cSquared:     CSquared,
		goroutines:   1,
		newCollector: NewDummyCollector,
	}
	for _, option := range options {
		option(m)
	}
	if m.simulations <= 0 {
		panic("Must specify search simulations")
	}
	return m
}

// Plan runs the configured number of simulations from states drawn out of
// sampler and returns the most visited root action. Each goroutine grows its
// own tree from a share of the sampled states; visit counts are summed at the
// root. The sampler is only used from the calling goroutine.
func (m *MCTS) Plan(sampler Sampler, rng *rand.Rand) (env.Action, SearchMetric) {
	metrics := m.newCollector()
	metrics.Start(m.goroutines, m.depth)

	starts := make([]env.State, m.simulations)
	for i := range starts {
		starts[i] = sampler.Sample()
	}

	roots := make([]*decision, m.goroutines)
	var wg sync.WaitGroup
	for g := 0; g < m.goroutines; g++ {
		wg.Add(1)
		go func(g int, rng *rand.Rand) {
			defer wg.Done()

			root := newDecision(m.model.NumActions())
			for i := g; i < len(starts); i += m.goroutines {
				m.simulate(root, starts[i], rng, metrics)
				metrics.AddEpisode()
			}
			roots[g] = root
		}(g, rand.New(rand.NewSource(rng.Uint64())))
	}
	wg.Wait()

	return bestAction(roots), metrics.Complete()
}

func bestAction(roots []*decision) env.Action {
	var visits []float64
	for _, root := range roots {
		policy := root.policy()
		if visits == nil {
			visits = policy
			continue
		}
		for i, v := range policy {
			visits[i] += v
		}
	}

	best := 0
	for i, v := range visits {
		if v > visits[best] {
			best = i
		}
	}
	return env.Action(best)
}

func (m *MCTS) simulate(root *decision, state env.State, rng *rand.Rand, metrics Collector) {
	path := []*decision{root}
	rewards := []float64{}

	// Select down the tree until a new child is added or the depth is reached
	node := root
	terminal := false
	for len(rewards) < m.depth && len(rewards) < m.horizon {
		action, child, expanded := node.selectOrExpand(m.cSquared)
		state = m.model.Transition(state, action, rng)
		rewards = append(rewards, m.model.Reward(state))
		path = append(path, child)
		node = child

		terminal = m.isTerminal(state)
		if terminal || expanded {
			break
		}
	}

	tail := 0.0
	if !terminal {
		tail, terminal = m.rollout(state, len(rewards), rng)
	}
	if terminal {
		metrics.AddTerminal()
	}
	backup(path, rewards, tail, m.discount)
}

// rollout follows a uniformly random policy from state until the horizon and
// returns the discounted reward collected on the way.
func (m *MCTS) rollout(state env.State, depth int, rng *rand.Rand) (float64, bool) {
	total := 0.0
	factor := 1.0
	numActions := m.model.NumActions()
	for ; depth < m.horizon; depth++ {
		action := env.Action(rng.Intn(numActions))
		state = m.model.Transition(state, action, rng)
		total += factor * m.model.Reward(state)
		factor *= m.discount
		if m.isTerminal(state) {
			return total, true
		}
	}
	return total, false
}

func (m *MCTS) isTerminal(state env.State) bool {
	return m.model.Collided(state) || m.model.Lost(state)
}

// backup credits every node on the path with the discounted return from the
// step that entered it. path[0] is the root, path[i+1] was entered with rewards[i].
func backup(path []*decision, rewards []float64, tail float64, discount float64) {
	value := tail
	for i := len(rewards) - 1; i >= 0; i-- {
		value = rewards[i] + discount*value
		path[i+1].update(value)
	}
	path[0].update(value)
}
