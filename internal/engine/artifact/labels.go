package artifact

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// loadLabels reads the label file shipped with the model: one label per
// line, ordered to match the model's output axis. Blank lines are skipped.
func loadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if label := strings.TrimSpace(scanner.Text()); label != "" {
			labels = append(labels, label)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels: file is empty: %s", path)
	}
	return labels, nil
}
