package searcher

import "math"

// uct scores the children of one parent with
// q/n + sqrt(c^2 * ln(N) / n), where N is the parent's visit count.
type uct struct {
	exploration float64 // c^2 * ln(N), shared by all children
}

func newUCT(cSquared float64, parentVisits float64) uct {
	if parentVisits <= 0 {
		panic("cannot score children of an unvisited node")
	}
	return uct{exploration: cSquared * math.Log(parentVisits)}
}

// score is +Inf for an unvisited child so that it is tried first.
func (u uct) score(child *decision) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	return child.rewards/child.visits + math.Sqrt(u.exploration/child.visits)
}
