package engine

import (
	"context"

	"ctf/experiments/metrics"
	"ctf/game"
)

const MaxMoves = 10000

type Engine interface {
	// Run plays a game till it is over or a max number of moves is reached
	Run(ctx context.Context) (winner game.Team, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
