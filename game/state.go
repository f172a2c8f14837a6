package game

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// GameState represents the dynamic state of the game at any point: agent
// positions and status, food and capsules left on the board, score and time.
// The layout is static and shared between all states of a game.
type GameState struct {
	layout   *Layout
	rules    Rules
	agents   []AgentState
	carried  [][]Point // food each agent holds, in pick-up order
	food     []bool    // by cell id
	capsules []bool    // by cell id
	score    int       // red minus blue
	timeLeft int
}

var _ State = (*GameState)(nil)

// NewGameState places every agent on its spawn point with all food and
// capsules on the board.
func NewGameState(layout *Layout, rules Rules) *GameState {
	cells := layout.width * layout.height
	gs := &GameState{
		layout:   layout,
		rules:    rules,
		agents:   make([]AgentState, layout.NumAgents()),
		carried:  make([][]Point, layout.NumAgents()),
		food:     make([]bool, cells),
		capsules: make([]bool, cells),
		timeLeft: rules.TimeLimit,
	}
	for i := range gs.agents {
		gs.agents[i] = AgentState{Position: layout.Start(i), Known: true}
	}
	for _, p := range layout.food {
		gs.food[layout.cell(p)] = true
	}
	for _, p := range layout.capsules {
		gs.capsules[layout.cell(p)] = true
	}
	return gs
}

// Copy returns a deep copy of the state. The layout is shared.
func (gs *GameState) Copy() *GameState {
	carried := make([][]Point, len(gs.carried))
	for i, c := range gs.carried {
		carried[i] = slices.Clone(c)
	}
	return &GameState{
		layout:   gs.layout,
		rules:    gs.rules,
		agents:   slices.Clone(gs.agents),
		carried:  carried,
		food:     slices.Clone(gs.food),
		capsules: slices.Clone(gs.capsules),
		score:    gs.score,
		timeLeft: gs.timeLeft,
	}
}

func (gs *GameState) Layout() *Layout { return gs.layout }
func (gs *GameState) Rules() Rules    { return gs.rules }
func (gs *GameState) Board() Board    { return gs.layout }
func (gs *GameState) NumAgents() int  { return len(gs.agents) }
func (gs *GameState) Score() int      { return gs.score }
func (gs *GameState) TimeLeft() int   { return gs.timeLeft }

func (gs *GameState) Agent(agent int) AgentState {
	gs.checkAgent(agent)
	return gs.agents[agent]
}

func (gs *GameState) IsRed(agent int) bool {
	return TeamOf(agent) == Red
}

func (gs *GameState) Teammates(agent int) []int {
	gs.checkAgent(agent)
	var mates []int
	for i := range gs.agents {
		if i != agent && TeamOf(i) == TeamOf(agent) {
			mates = append(mates, i)
		}
	}
	return mates
}

func (gs *GameState) Opponents(agent int) []int {
	gs.checkAgent(agent)
	var opponents []int
	for i := range gs.agents {
		if TeamOf(i) != TeamOf(agent) {
			opponents = append(opponents, i)
		}
	}
	return opponents
}

// Food returns the food on the opponent's side of agent, which is the food
// agent's team scores by returning home.
func (gs *GameState) Food(agent int) []Point {
	gs.checkAgent(agent)
	red := gs.IsRed(agent)
	var food []Point
	for id, present := range gs.food {
		if !present {
			continue
		}
		p := gs.layout.point(id)
		if gs.layout.IsRedSide(p) != red {
			food = append(food, p)
		}
	}
	return food
}

// Capsules returns the capsules still on the board.
func (gs *GameState) Capsules() []Point {
	var capsules []Point
	for id, present := range gs.capsules {
		if present {
			capsules = append(capsules, gs.layout.point(id))
		}
	}
	return capsules
}

// LegalActions returns the moves agent can make, Stop included. Agents whose
// position is unknown have no legal actions.
func (gs *GameState) LegalActions(agent int) []Action {
	gs.checkAgent(agent)
	a := gs.agents[agent]
	if !a.Known {
		return nil
	}
	actions := make([]Action, 0, len(Actions))
	for _, action := range Actions {
		next := a.Position.Move(action)
		if !gs.layout.IsWall(next.X, next.Y) {
			actions = append(actions, action)
		}
	}
	return actions
}

// Play returns the state after agent takes action. Panics on an illegal move.
func (gs *GameState) Play(agent int, action Action) State {
	gs.checkAgent(agent)
	if !slices.Contains(gs.LegalActions(agent), action) {
		panic(fmt.Sprintf("illegal action %s for agent %d", action, agent))
	}

	next := gs.Copy()
	next.apply(agent, action)
	return next
}

func (gs *GameState) apply(agent int, action Action) {
	a := &gs.agents[agent]
	a.Position = a.Position.Move(action)
	red := gs.IsRed(agent)
	a.IsPacman = gs.layout.IsRedSide(a.Position) != red
	cell := gs.layout.cell(a.Position)

	if a.IsPacman {
		if gs.food[cell] {
			gs.food[cell] = false
			gs.carried[agent] = append(gs.carried[agent], a.Position)
		}
		if gs.capsules[cell] {
			gs.capsules[cell] = false
			for _, o := range gs.Opponents(agent) {
				gs.agents[o].ScaredTimer = gs.rules.ScaredTime
			}
		}
	} else if len(gs.carried[agent]) > 0 {
		returned := len(gs.carried[agent])
		if red {
			gs.score += returned
		} else {
			gs.score -= returned
		}
		gs.carried[agent] = nil
	}
	a.Carrying = len(gs.carried[agent])

	died := false
	for _, o := range gs.Opponents(agent) {
		other := &gs.agents[o]
		if !other.Known || other.Position != a.Position {
			continue
		}
		if a.IsPacman {
			// agent walked into a defender
			if other.ScaredTimer > 0 {
				gs.respawn(o)
			} else {
				gs.respawn(agent)
				died = true
				break
			}
		} else if other.IsPacman {
			if a.ScaredTimer > 0 {
				gs.respawn(agent)
				died = true
				break
			}
			gs.respawn(o)
		}
	}

	if !died && a.ScaredTimer > 0 {
		a.ScaredTimer--
	}
	gs.timeLeft--
}

// respawn sends agent back to its start and drops its food where it was found.
func (gs *GameState) respawn(agent int) {
	for _, p := range gs.carried[agent] {
		gs.food[gs.layout.cell(p)] = true
	}
	gs.carried[agent] = nil
	gs.agents[agent] = AgentState{Position: gs.layout.Start(agent), Known: true}
}

// IsOver reports whether time has run out or a team has returned all but
// Rules.MinFood of the food it needs to collect.
func (gs *GameState) IsOver() bool {
	if gs.timeLeft <= 0 {
		return true
	}
	for _, team := range []int{0, 1} {
		if team >= len(gs.agents) {
			break
		}
		outstanding := len(gs.Food(team))
		for i := team; i < len(gs.agents); i += 2 {
			outstanding += len(gs.carried[i])
		}
		if outstanding <= gs.rules.MinFood {
			return true
		}
	}
	return false
}

// Winner returns the leading team, or NoTeam on a tie.
func (gs *GameState) Winner() Team {
	switch {
	case gs.score > 0:
		return Red
	case gs.score < 0:
		return Blue
	default:
		return NoTeam
	}
}

// Observe returns the state as seen by agent's team: opponents outside the
// sight range of every teammate lose their position. Their carried food and
// scared timers stay visible.
func (gs *GameState) Observe(agent int) *GameState {
	gs.checkAgent(agent)
	observed := gs.Copy()
	team := append(gs.Teammates(agent), agent)
	for _, o := range gs.Opponents(agent) {
		if !gs.inSight(team, gs.agents[o].Position) {
			observed.agents[o].Known = false
			observed.agents[o].Position = Point{}
		}
	}
	return observed
}

func (gs *GameState) inSight(team []int, p Point) bool {
	for _, i := range team {
		if gs.agents[i].Known && gs.agents[i].Position.Manhattan(p) <= gs.rules.SightRange {
			return true
		}
	}
	return false
}

func (gs *GameState) checkAgent(agent int) {
	if agent < 0 || agent >= len(gs.agents) {
		panic(fmt.Sprintf("agent index %d out of range [0, %d)", agent, len(gs.agents)))
	}
}
