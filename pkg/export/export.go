// Package export writes generated essays to disk and computes the
// display stats shown alongside them.
package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Stats summarizes a generated essay for display.
type Stats struct {
	Title      string
	WordCount  int
	Paragraphs int
}

// EssayStats computes display stats. The first line is treated as the
// title when more than one blank-line-separated block exists.
func EssayStats(essay string) (stats Stats) {
	trimmed := strings.TrimSpace(essay)
	if trimmed == "" {
		return stats
	}

	stats.WordCount = len(strings.Fields(trimmed))

	blocks := splitBlocks(trimmed)
	stats.Paragraphs = len(blocks)

	if len(blocks) > 1 && !strings.Contains(blocks[0], "\n") {
		stats.Title = blocks[0]
		stats.Paragraphs--
	}

	return stats
}

// WriteEssay writes the essay text to path, creating parent
// directories as needed.
func WriteEssay(essay, path string) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create export directory: %s", dir)
		return err
	}

	err = os.WriteFile(path, []byte(essay), 0644)
	if err != nil {
		err = errors.Wrapf(err, "failed to write essay file: %s", path)
		return err
	}

	return err
}

// splitBlocks splits text on blank lines.
func splitBlocks(text string) (blocks []string) {
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
