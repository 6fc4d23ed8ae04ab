package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one AI entrant of an experiment.
type AgentConfig struct {
	ID         int
	Difficulty string
	Depth      int // veryhard only
	Goroutines int // veryhard only
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing Red
	Agent2 int // AgentConfig.ID playing Black
	GameMetric
}

type DecisionRecord struct {
	Game int // GameRecord.ID
	DecisionMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped folder under root for one experiment run.
func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "difficulty", "depth", "goroutines"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Difficulty,
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.Goroutines),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "red", "black", "winner", "start_time", "end_time", "duration", "ticks", "simulated", "moves", "rejections", "kills"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.Red,
			record.Black,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.FormatUint(record.Ticks, 10),
			strconv.FormatFloat(record.Simulated, 'f', 3, 64),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.Rejections),
			strconv.Itoa(record.Kills),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteDecisionRecords(records []DecisionRecord) error {
	header := []string{"game", "tick", "team", "strategy", "branch", "candidates", "score", "duration", "accepted", "reason"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.FormatUint(record.Tick, 10),
			record.Team,
			record.Strategy,
			record.Branch,
			strconv.Itoa(record.Candidates),
			strconv.FormatFloat(record.Score, 'f', 3, 64),
			record.Duration.String(),
			strconv.FormatBool(record.Accepted),
			record.Reason,
		})
	}
	return w.write("decision_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
