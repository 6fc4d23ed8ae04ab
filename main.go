package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"xiangqi/communication/client"
	"xiangqi/communication/server"
	"xiangqi/engine"
	"xiangqi/experiments"
	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/meta"
	"xiangqi/player"
	"xiangqi/searcher"
)

const human = "human"

func main() {
	mode := flag.String("mode", "match", "match, serve, experiment, bot, move or watch")
	configPath := flag.String("config", "", "YAML config file")
	red := flag.String("red", "hard", "Red player: easy, hard, veryhard or human (serve only)")
	black := flag.String("black", "veryhard", "Black player: easy, hard, veryhard or human (serve only)")
	experiment := flag.String("experiment", "difficulty", "difficulty or throughput")
	games := flag.Int("games", experiments.NumGames, "Games per match up")
	parallel := flag.Int("parallel", 1, "Matches played at once")
	samples := flag.Int("samples", 10, "Searches per goroutine count (throughput)")
	out := flag.String("out", "results", "Experiment results folder")
	serverURL := flag.String("server", "http://localhost:8080", "Match server for bot, move and watch")
	team := flag.String("team", "red", "Team of the bot or the move")
	difficulty := flag.String("difficulty", "hard", "Bot difficulty")
	from := flag.String("from", "", "Origin cell as col,row")
	to := flag.String("to", "", "Destination cell as col,row")
	flag.Parse()

	cfg, err := meta.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "match":
		err = runMatch(cfg, *red, *black)
	case "serve":
		err = serve(ctx, cfg, *red, *black)
	case "experiment":
		x := experiments.Experiment{Config: cfg, Games: *games, Parallel: *parallel, OutDir: *out}
		switch *experiment {
		case "difficulty":
			err = x.RunDifficultyExperiment()
		case "throughput":
			err = x.RunThroughputExperiment(*samples)
		default:
			err = fmt.Errorf("unknown experiment %q", *experiment)
		}
	case "bot":
		err = runBot(ctx, cfg, *serverURL, *team, *difficulty)
	case "move":
		err = sendMove(ctx, *serverURL, *team, *from, *to)
	case "watch":
		err = watch(ctx, *serverURL)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func runMatch(cfg meta.Config, red, black string) error {
	gameMetric, decisions, err := experiments.RunGame(cfg,
		metrics.AgentConfig{ID: 1, Difficulty: red},
		metrics.AgentConfig{ID: 2, Difficulty: black},
		cfg.Seed,
	)
	if err != nil {
		return err
	}
	fmt.Printf("%s (red) vs %s (black): winner %s after %.1fs simulated, %d moves, %d kills, %d decisions\n",
		gameMetric.Red, gameMetric.Black, gameMetric.Winner, gameMetric.Simulated, gameMetric.Moves, gameMetric.Kills, len(decisions))
	return nil
}

// serve runs a real-time match and exposes it over HTTP. The final state stays
// available until the process is interrupted.
func serve(ctx context.Context, cfg meta.Config, red, black string) error {
	options := []engine.Option{engine.WithConfig(cfg)}
	for i, difficulty := range []string{red, black} {
		if difficulty == human {
			continue
		}
		agent, err := experiments.NewAgent(cfg, metrics.AgentConfig{ID: i + 1, Difficulty: difficulty}, game.Teams[i], cfg.Seed+uint64(i))
		if err != nil {
			return err
		}
		options = append(options, engine.WithAgent(agent))
	}

	runner := engine.NewRunner(engine.New(options...), cfg.TickRate,
		engine.WithMaxDuration(cfg.MaxMatch),
		engine.WithListener(func(ev engine.Event) {
			if ev.Kind != engine.TransitProgress {
				log.Debug().Msg(ev.String())
			}
		}),
	)
	sc := server.NewServerCommunicator(runner, 2, 4)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		winner, over, err := runner.RunRealtime(ctx)
		if err == nil && over {
			log.Info().Msgf("winner: %s", winner)
		}
		return nil
	})
	g.Go(func() error {
		return sc.Start(ctx, cfg.HTTPAddr)
	})
	return g.Wait()
}

// runBot plays one team of a served match from another process.
func runBot(ctx context.Context, cfg meta.Config, url, team, difficulty string) error {
	var t game.Team
	if err := t.UnmarshalText([]byte(team)); err != nil {
		return err
	}
	strategy, err := searcher.New(difficulty, searcher.WithDepth(cfg.SearchDepth), searcher.WithGoroutines(cfg.Goroutines))
	if err != nil {
		return err
	}
	bot := player.NewPlayer(t, strategy, client.NewClientCommunicator(url, nil), cfg.Seed)
	iv := cfg.Interval(difficulty)
	bot.Interval = time.Duration((iv.Min + iv.Max) / 2 * float64(time.Second))
	return bot.Play(ctx)
}

func sendMove(ctx context.Context, url, team, from, to string) error {
	var cmd engine.MoveCommand
	if err := cmd.Team.UnmarshalText([]byte(team)); err != nil {
		return err
	}
	var err error
	if cmd.From, err = parsePosition(from); err != nil {
		return err
	}
	if cmd.To, err = parsePosition(to); err != nil {
		return err
	}
	if err := client.NewClientCommunicator(url, nil).SendMove(ctx, cmd); err != nil {
		return err
	}
	log.Info().Msgf("queued %s", cmd)
	return nil
}

func watch(ctx context.Context, url string) error {
	cc := client.NewClientCommunicator(url, nil)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		snap, err := cc.GetSnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("tick %d: %d pieces, %d in flight, red %.2f, black %.2f\n",
			snap.Tick, len(snap.Pieces), len(snap.Transits), snap.Pools[game.Red].Current, snap.Pools[game.Black].Current)
		if snap.Over {
			fmt.Printf("winner: %s\n", snap.Winner)
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func parsePosition(s string) (game.Position, error) {
	col, row, ok := strings.Cut(s, ",")
	if !ok {
		return game.Position{}, fmt.Errorf("position %q: want col,row", s)
	}
	c, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return game.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(row))
	if err != nil {
		return game.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return game.Position{Col: c, Row: r}, nil
}
