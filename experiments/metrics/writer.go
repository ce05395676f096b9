package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"connect4/game"
)

type AgentConfig struct {
	ID          int           `yaml:"id"`
	Kind        string        `yaml:"kind"` // mcts, sampling or random
	Duration    time.Duration `yaml:"duration"`
	Episodes    int           `yaml:"episodes"`
	Exploration float64       `yaml:"exploration"`
	Temperature float64       `yaml:"temperature"` // Sampling agents only, 0 plays greedily
	Seed        uint64        `yaml:"seed"`
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID of the first player
	Agent2 int // AgentConfig.ID of the second player
	GameMetric
}

type MoveRecord struct {
	Game  int // GameRecord.ID
	Agent int // AgentConfig.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// Directory names must stay valid on every platform, so no colons
const timestampFormat = "20060102T150405Z"

// NewWriter creates <root>/<name>/<timestamp>-<suffix> to hold the experiment's CSV files.
// The random suffix keeps runs started within the same second apart.
func NewWriter(root, name string) (*Writer, error) {
	parent := filepath.Join(root, name)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	timestamp := time.Now().UTC().Format(timestampFormat)
	baseDir, err := os.MkdirTemp(parent, timestamp+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "duration", "episodes", "exploration", "temperature", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "status", "winner", "start_time", "end_time", "duration", "moves", "history"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		winner := ""
		if record.Outcome.Status == game.Win {
			winner = record.Outcome.Winner.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.Outcome.Status.String(),
			winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			joinInts(record.History),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "agent", "step", "player", "column", "duration", "episodes", "rollouts", "terminal_hits", "tree_size"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Step),
			record.Player.String(),
			strconv.Itoa(record.Column),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.TerminalHits),
			strconv.Itoa(record.TreeSize),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) (err error) {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", file, closeErr)
		}
	}()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
