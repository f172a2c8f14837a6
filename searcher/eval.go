package searcher

import (
	"math"

	"ctf/game"
)

type Role int

const (
	Offense Role = iota
	Defense
)

func (r Role) String() string {
	if r == Offense {
		return "offense"
	}
	return "defense"
}

// Evaluator scores positions for either team of one board. Boundary cells are
// enumerated once at construction since walls never move.
type Evaluator struct {
	weights  Weights
	board    game.Board
	boundary map[bool][]game.Point // keyed by "is red"
}

func NewEvaluator(board game.Board, weights Weights) *Evaluator {
	e := &Evaluator{
		weights:  weights,
		board:    board,
		boundary: make(map[bool][]game.Point, 2),
	}
	for _, red := range []bool{true, false} {
		x := BoundaryColumn(board.Width(), red)
		for y := 1; y < board.Height()-1; y++ {
			if !board.IsWall(x, y) {
				e.boundary[red] = append(e.boundary[red], game.Point{X: x, Y: y})
			}
		}
	}
	return e
}

// BoundaryColumn is the last column of a team's home side.
func BoundaryColumn(width int, red bool) int {
	if red {
		return width/2 - 1
	}
	return width / 2
}

// Evaluate returns the utility of state for agent. It returns Loss when the
// agent is off the board or a defender is about to capture it.
func (e *Evaluator) Evaluate(state game.State, agent int) float64 {
	me := state.Agent(agent)
	if !me.Known {
		return Loss
	}

	red := state.IsRed(agent)
	score := float64(state.Score())
	if !red {
		score = -score
	}
	value := score * e.weights.ScoreScale
	role := AssignRole(state, agent)

	if role == Offense {
		return e.offense(state, agent, me, value)
	}
	return e.defense(state, agent, me, value)
}

func (e *Evaluator) offense(state game.State, agent int, me game.AgentState, value float64) float64 {
	w := e.weights

	threat := w.NoDistance
	for _, o := range state.Opponents(agent) {
		other := state.Agent(o)
		if !other.Known || other.IsPacman || other.ScaredTimer >= w.ThreatScaredThreshold {
			continue
		}
		threat = math.Min(threat, e.distance(me.Position, other.Position))
	}

	if threat <= w.LethalRange {
		return Loss
	}
	if threat <= w.DangerRange {
		value -= w.DangerPenalty / (threat + 0.1)
	}

	food := state.Food(agent)
	needsReturn := me.Carrying >= w.CarryLimit ||
		len(food) <= w.EndgameFood ||
		(me.Carrying > 0 && state.TimeLeft() < w.LowTime) ||
		(me.Carrying > 0 && threat <= w.ChaseRange)

	if needsReturn {
		value += w.ReturnBonus
		value -= e.boundaryDistance(me.Position, state.IsRed(agent)) * w.ReturnWeight
	} else if len(food) > 0 {
		nearest := w.NoDistance
		for _, f := range food {
			nearest = math.Min(nearest, e.distance(me.Position, f))
		}
		value -= nearest * w.FoodDistanceWeight
		value -= float64(len(food)) * w.FoodCountWeight
	}
	return value
}

func (e *Evaluator) defense(state game.State, agent int, me game.AgentState, value float64) float64 {
	w := e.weights

	if me.IsPacman {
		value -= w.StrayPenalty
	}

	invader := math.Inf(1)
	for _, o := range state.Opponents(agent) {
		other := state.Agent(o)
		if other.Known && other.IsPacman {
			invader = math.Min(invader, e.distance(me.Position, other.Position))
		}
	}
	seen := !math.IsInf(invader, 1)

	if me.ScaredTimer > 0 {
		// keep away from invaders until the scare wears off
		if seen {
			value += invader * w.InvaderWeight
		} else {
			value -= e.boundaryDistance(me.Position, state.IsRed(agent)) * w.BoundaryWeight
		}
		return value
	}

	if seen {
		value -= invader * w.InvaderWeight
	} else {
		value -= e.boundaryDistance(me.Position, state.IsRed(agent)) * w.BoundaryWeight
	}
	return value
}

// distance is the maze distance, capped at NoDistance for unreachable cells.
func (e *Evaluator) distance(a, b game.Point) float64 {
	d := e.board.Distance(a, b)
	if math.IsInf(d, 1) || d > e.weights.NoDistance {
		return e.weights.NoDistance
	}
	return d
}

func (e *Evaluator) boundaryDistance(p game.Point, red bool) float64 {
	nearest := e.weights.NoDistance
	for _, b := range e.boundary[red] {
		nearest = math.Min(nearest, e.distance(p, b))
	}
	return nearest
}

// AssignRole picks the agent's role from the raw state. A team that is ahead
// defends. Otherwise the agent furthest into enemy territory attacks, ties
// going to the lower index, and an agent whose teammates are out of sight
// attacks.
func AssignRole(state game.State, agent int) Role {
	red := state.IsRed(agent)
	score := state.Score()
	if (red && score > 0) || (!red && score < 0) {
		return Defense
	}

	me := state.Agent(agent)
	width := state.Board().Width()
	mine := progress(me.Position, width, red)
	for _, mate := range state.Teammates(agent) {
		other := state.Agent(mate)
		if !other.Known {
			continue
		}
		theirs := progress(other.Position, width, red)
		if theirs > mine || (theirs == mine && mate < agent) {
			return Defense
		}
	}
	return Offense
}

// progress is how far p lies towards the opponent's edge of the map.
func progress(p game.Point, width int, red bool) int {
	if red {
		return p.X
	}
	return width - p.X
}
