package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts search events", func(t *testing.T) {
		c := NewCollector()
		c.Start(3, true)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					c.AddNode()
					c.AddEvaluation()
				}
				c.AddCutoff()
			}()
		}
		wg.Wait()
		m := c.Complete(1.5)

		require.Equal(t, 3, m.Depth)
		require.True(t, m.Pruning)
		require.Equal(t, 400, m.Nodes)
		require.Equal(t, 400, m.Evaluations)
		require.Equal(t, 4, m.Cutoffs)
		require.Equal(t, 1.5, m.Score)
		require.GreaterOrEqual(t, m.Duration, time.Duration(0))
	})

	t.Run("start resets the counts", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, false)
		c.AddNode()
		c.Complete(0)

		c.Start(2, false)
		m := c.Complete(0)

		require.Zero(t, m.Nodes, "Each search should be measured on its own")
		require.Equal(t, 2, m.Depth)
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(3, true)
		c.AddNode()

		require.Equal(t, SearchMetric{}, c.Complete(5))
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "depth", "run")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	require.Equal(t, dir, w.Dir())

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
		{ID: 0, Kind: "random"},
		{ID: 1, Kind: "alphabeta", Depth: 2, Pruning: true},
	}))
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.WriteGameRecords([]GameRecord{{
		ID: 1, MatchUp: 0, Red: 1, Blue: 0,
		GameMetric: GameMetric{Winner: "red", Score: 3, StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second, TotalMoves: 40},
	}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game:       1,
		MoveMetric: MoveMetric{Step: 1, Agent: 0, Action: "East", SearchMetric: SearchMetric{Depth: 2, Pruning: true, Nodes: 12, Evaluations: 30, Cutoffs: 4, Score: -152}},
	}}))

	configs := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "kind", "depth", "pruning"},
		{"0", "random", "0", "false"},
		{"1", "alphabeta", "2", "true"},
	}, configs)

	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, []string{"1", "0", "1", "0", "red", "3", "40", "2024-05-01T12:00:00Z", "2024-05-01T12:00:01Z", "1s"}, games[1])

	moves := readCSV(t, filepath.Join(dir, "move_records.csv"))
	require.Len(t, moves, 2)
	require.Equal(t, "East", moves[1][3])
	require.Equal(t, "-152", moves[1][10])
}
