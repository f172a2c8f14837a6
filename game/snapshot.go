package game

import "fmt"

// Snapshot is the wire form of a GameState. The layout travels separately as
// text since it is static for a whole game.
type Snapshot struct {
	Agents   []AgentState `json:"agents"`
	Carried  [][]Point    `json:"carried"`
	Food     []Point      `json:"food"`
	Capsules []Point      `json:"capsules"`
	Score    int          `json:"score"`
	TimeLeft int          `json:"time_left"`
	Rules    Rules        `json:"rules"`
}

func (gs *GameState) Snapshot() Snapshot {
	var food []Point
	for id, present := range gs.food {
		if present {
			food = append(food, gs.layout.point(id))
		}
	}
	snap := gs.Copy()
	return Snapshot{
		Agents:   snap.agents,
		Carried:  snap.carried,
		Food:     food,
		Capsules: gs.Capsules(),
		Score:    gs.score,
		TimeLeft: gs.timeLeft,
		Rules:    gs.rules,
	}
}

// FromSnapshot rebuilds a state on layout, validating that the snapshot fits
// the layout.
func FromSnapshot(layout *Layout, snap Snapshot) (*GameState, error) {
	if len(snap.Agents) != layout.NumAgents() {
		return nil, fmt.Errorf("snapshot has %d agents, layout has %d", len(snap.Agents), layout.NumAgents())
	}
	if snap.Carried != nil && len(snap.Carried) != len(snap.Agents) {
		return nil, fmt.Errorf("snapshot carries food for %d agents, expected %d", len(snap.Carried), len(snap.Agents))
	}

	gs := NewGameState(layout, snap.Rules)
	gs.score = snap.Score
	gs.timeLeft = snap.TimeLeft
	clear(gs.food)
	clear(gs.capsules)

	for i, a := range snap.Agents {
		if a.Known && layout.IsWall(a.Position.X, a.Position.Y) {
			return nil, fmt.Errorf("agent %d is placed on a wall at %+v", i, a.Position)
		}
		gs.agents[i] = a
		if snap.Carried != nil {
			gs.carried[i] = append([]Point(nil), snap.Carried[i]...)
		}
		gs.agents[i].Carrying = len(gs.carried[i])
	}
	for _, p := range snap.Food {
		if layout.IsWall(p.X, p.Y) {
			return nil, fmt.Errorf("food placed on a wall at %+v", p)
		}
		gs.food[layout.cell(p)] = true
	}
	for _, p := range snap.Capsules {
		if layout.IsWall(p.X, p.Y) {
			return nil, fmt.Errorf("capsule placed on a wall at %+v", p)
		}
		gs.capsules[layout.cell(p)] = true
	}
	return gs, nil
}
