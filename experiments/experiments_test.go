package experiments

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/meta"
)

func TestRunGame(t *testing.T) {
	cfg := meta.Default()
	cfg.MaxMatch = 30 * time.Second
	cfg.Seed = 42

	gameMetric, decisions, err := RunGame(cfg, difficultyConfigs[0], difficultyConfigs[1], 7)
	require.NoError(t, err)
	require.Equal(t, "easy", gameMetric.Red)
	require.Equal(t, "hard", gameMetric.Black)
	require.NotZero(t, gameMetric.Ticks)
	require.NotEmpty(t, decisions)
	require.Contains(t, []string{Timeout, game.Red.String(), game.Black.String(), game.NoTeam.String()}, gameMetric.Winner)

	accepted := 0
	for _, d := range decisions {
		if d.Accepted {
			accepted++
		}
	}
	require.LessOrEqual(t, accepted, gameMetric.Moves)
}

func TestNewAgent(t *testing.T) {
	_, err := NewAgent(meta.Default(), metrics.AgentConfig{Difficulty: "grandmaster"}, game.Red, 1)
	require.Error(t, err)

	a, err := NewAgent(meta.Default(), difficultyConfigs[2], game.Black, 1)
	require.NoError(t, err)
	require.Equal(t, game.Black, a.Team())
	require.Equal(t, "veryhard", a.Name())
}

func TestExperimentWritesResults(t *testing.T) {
	cfg := meta.Default()
	cfg.MaxMatch = 5 * time.Second
	x := Experiment{Config: cfg, Games: 1, Parallel: 2, OutDir: t.TempDir()}

	require.NoError(t, x.RunThroughputExperiment(1))
	require.NoError(t, x.RunDifficultyExperiment())

	for _, name := range []string{"throughput", "difficulty"} {
		runs, err := os.ReadDir(filepath.Join(x.OutDir, name))
		require.NoError(t, err)
		require.NotEmpty(t, runs)
		_, err = os.Stat(filepath.Join(x.OutDir, name, runs[0].Name(), "decision_records.csv"))
		require.NoError(t, err)
	}
}
