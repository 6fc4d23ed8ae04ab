package experiments

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"xiangqi/engine"
	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/meta"
	"xiangqi/searcher"
)

const NumGames = 10 // Per match up

// Timeout labels a match that hit the duration limit.
const Timeout = "timeout"

var difficultyConfigs = []metrics.AgentConfig{
	{ID: 1, Difficulty: "easy"},
	{ID: 2, Difficulty: "hard"},
	{ID: 3, Difficulty: "veryhard", Depth: meta.SearchDepth, Goroutines: meta.Goroutines},
}

// Experiment plays AI match ups headlessly and stores the results as CSV.
type Experiment struct {
	Config   meta.Config
	Games    int    // per match up
	Parallel int    // matches played at once
	OutDir   string // root folder for results
}

// RunDifficultyExperiment pairs every difficulty against every other one, with
// both colour assignments.
func (x Experiment) RunDifficultyExperiment() error {
	var matchUps [][2]metrics.AgentConfig
	for _, red := range difficultyConfigs {
		for _, black := range difficultyConfigs {
			if red.ID != black.ID {
				matchUps = append(matchUps, [2]metrics.AgentConfig{red, black})
			}
		}
	}
	return x.run("difficulty", difficultyConfigs, matchUps)
}

func (x Experiment) run(name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) error {
	games := x.Games
	if games <= 0 {
		games = NumGames
	}
	log.Info().Msgf("starting %s experiment with %d match ups of %d games...", name, len(matchUps), games)

	var (
		mu              sync.Mutex
		gameRecords     []metrics.GameRecord
		decisionRecords []metrics.DecisionRecord
	)
	g := new(errgroup.Group)
	g.SetLimit(max(1, x.Parallel))
	count := 0
	for mi, matchUp := range matchUps {
		mi, matchUp := mi, matchUp
		for i := 0; i < games; i++ {
			i := i
			count++
			id := count
			seed := x.Config.Seed + uint64(id)
			g.Go(func() error {
				gameMetric, decisions, err := RunGame(x.Config, matchUp[0], matchUp[1], seed)
				if err != nil {
					return fmt.Errorf("match up %d game %d: %w", mi+1, i+1, err)
				}
				log.Info().Msgf("completed match up %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, gameMetric.Winner)

				mu.Lock()
				defer mu.Unlock()
				gameRecords = append(gameRecords, metrics.GameRecord{
					ID:         id,
					Agent1:     matchUp[0].ID,
					Agent2:     matchUp[1].ID,
					GameMetric: gameMetric,
				})
				for _, d := range decisions {
					decisionRecords = append(decisionRecords, metrics.DecisionRecord{Game: id, DecisionMetric: d})
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msgf("completed %s experiment", name)

	return x.store(name, configs, gameRecords, decisionRecords)
}

func (x Experiment) store(name string, configs []metrics.AgentConfig, games []metrics.GameRecord, decisions []metrics.DecisionRecord) error {
	writer, err := metrics.NewWriter(filepath.Join(x.OutDir, name))
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteDecisionRecords(decisions); err != nil {
		return fmt.Errorf("failed to write decision records: %w", err)
	}
	log.Info().Msgf("stored %s results in %s", name, writer.Dir())
	return nil
}

// RunGame plays one headless match between two AI configurations.
func RunGame(cfg meta.Config, red, black metrics.AgentConfig, seed uint64) (metrics.GameMetric, []metrics.DecisionMetric, error) {
	redAgent, err := NewAgent(cfg, red, game.Red, seed)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	blackAgent, err := NewAgent(cfg, black, game.Black, seed+1)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}

	collector := metrics.NewCollector()
	collector.Start(redAgent.Name(), blackAgent.Name())
	e := engine.New(
		engine.WithConfig(cfg),
		engine.WithAgent(redAgent),
		engine.WithAgent(blackAgent),
		engine.WithMetrics(collector),
	)
	winner, over := engine.NewRunner(e, cfg.TickRate, engine.WithMaxDuration(cfg.MaxMatch)).Run()

	outcome := winner.String()
	if !over {
		outcome = Timeout
	}
	ticks, elapsed := e.Clock()
	gameMetric, decisions := collector.Complete(outcome, ticks, elapsed)
	return gameMetric, decisions, nil
}

// NewAgent builds the controller for one entrant.
func NewAgent(cfg meta.Config, config metrics.AgentConfig, team game.Team, seed uint64) (*searcher.Controller, error) {
	var options []searcher.Option
	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	} else {
		options = append(options, searcher.WithDepth(cfg.SearchDepth))
	}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	} else {
		options = append(options, searcher.WithGoroutines(cfg.Goroutines))
	}
	strategy, err := searcher.New(config.Difficulty, options...)
	if err != nil {
		return nil, err
	}
	return searcher.NewController(team, strategy,
		searcher.WithSeed(seed),
		searcher.WithInterval(cfg.Interval(config.Difficulty)),
	), nil
}
