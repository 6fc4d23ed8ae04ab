package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/searcher"
)

// RunThroughputExperiment times the minimax search on the opening position for
// increasing goroutine counts.
func (x Experiment) RunThroughputExperiment(samples int) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Difficulty: "veryhard", Depth: 2, Goroutines: 1},
		{ID: 2, Difficulty: "veryhard", Depth: 2, Goroutines: 2},
		{ID: 3, Difficulty: "veryhard", Depth: 2, Goroutines: 4},
		{ID: 4, Difficulty: "veryhard", Depth: 2, Goroutines: 8},
		{ID: 5, Difficulty: "veryhard", Depth: 2, Goroutines: 16},
	}

	board := game.CreateStandardBoard()
	rules := game.Rules{CannonScreen: x.Config.CannonScreen, ElephantEye: x.Config.ElephantEye}
	rng := rand.New(rand.NewSource(x.Config.Seed))

	var records []metrics.DecisionRecord
	for _, config := range configs {
		log.Info().Msgf("timing %d searches with %d goroutines...", samples, config.Goroutines)
		var total time.Duration
		for i := 0; i < samples; i++ {
			strategy := searcher.NewVeryHard(
				searcher.WithDepth(config.Depth),
				searcher.WithGoroutines(config.Goroutines),
				searcher.WithBook(searcher.Book{}),
			)
			view := searcher.View{Board: board, Rules: rules, Team: game.Teams[i%2]}
			decision, ok := strategy.Decide(view, rng)
			if !ok {
				return fmt.Errorf("no move found on the opening position")
			}
			total += decision.Duration
			records = append(records, metrics.DecisionRecord{
				Game: config.ID,
				DecisionMetric: metrics.DecisionMetric{
					Team:       view.Team.String(),
					Strategy:   strategy.Name(),
					Branch:     string(decision.Branch),
					Candidates: decision.Candidates,
					Score:      decision.Plan.Score,
					Duration:   decision.Duration,
					Accepted:   true,
				},
			})
		}
		if samples > 0 {
			log.Info().Msgf("%d goroutines: mean search %s", config.Goroutines, total/time.Duration(samples))
		}
	}

	return x.store("throughput", configs, nil, records)
}
