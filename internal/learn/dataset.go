package learn

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/parser"
)

// LoadDataset reads a training set: one observed value per line in surface
// syntax. Blank lines and lines starting with # are skipped.
func LoadDataset(path string) ([]ast.PureNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var data []ast.PureNode
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		val, err := parser.ParseValue(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		data = append(data, val)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return data, nil
}
