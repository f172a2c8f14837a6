package communication

import (
	"ctf/experiments/metrics"
	"ctf/game"
)

const FindMovePath = "/findmove"

// FindMoveRequest asks a remote agent to move. The layout travels as text
// so the server can rebuild the board.
type FindMoveRequest struct {
	Layout string        `json:"layout"`
	State  game.Snapshot `json:"state"`
	Agent  int           `json:"agent"`
}

type FindMoveResponse struct {
	Action game.Action          `json:"action"`
	Metric metrics.SearchMetric `json:"metric"`
}
