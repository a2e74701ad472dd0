package searcher

import (
	"math"

	"birdseye/env"
)

// decision is a node of the open-loop tree: children are indexed by action and
// share statistics over every world state sampled through the same action
// sequence.
type decision struct {
	children []*decision
	expanded int // Children are added in action order
	rewards  float64
	visits   float64
}

func newDecision(numActions int) *decision {
	return &decision{children: make([]*decision, numActions)}
}

// selectOrExpand adds the next untried child if any, otherwise picks the
// child with the highest UCT score.
func (d *decision) selectOrExpand(cSquared float64) (env.Action, *decision, bool) {
	if d.expanded < len(d.children) {
		action := d.expanded
		child := newDecision(len(d.children))
		d.children[action] = child
		d.expanded++
		return env.Action(action), child, true
	}

	policy := newUCT(cSquared, d.visits)
	best := -1
	bestScore := math.Inf(-1)
	for i, child := range d.children {
		if score := policy.score(child); score > bestScore {
			bestScore = score
			best = i
		}
	}
	return env.Action(best), d.children[best], false
}

func (d *decision) update(value float64) {
	d.rewards += value
	d.visits++
}

// policy returns the visit count of every action at this node.
func (d *decision) policy() []float64 {
	visits := make([]float64, len(d.children))
	for i, child := range d.children {
		if child != nil {
			visits[i] = child.visits
		}
	}
	return visits
}
