package env

import "math"

// SimpleActions combines three heading changes with two speeds.
type SimpleActions struct {
	turns  []float64
	speeds []float64
}

func NewSimpleActions() *SimpleActions {
	return &SimpleActions{
		turns:  []float64{-math.Pi / 6, 0, math.Pi / 6},
		speeds: []float64{1, 3},
	}
}

func (a *SimpleActions) Count() int {
	return len(a.turns) * len(a.speeds)
}

// Decode returns the heading change (radians) and speed (meters per step) of an action.
func (a *SimpleActions) Decode(action Action) (turn, speed float64) {
	i := int(action)
	if i < 0 || i >= a.Count() {
		panic("action out of range")
	}
	return a.turns[i%len(a.turns)], a.speeds[i/len(a.turns)]
}
