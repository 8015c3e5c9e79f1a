package batch

import (
	"fmt"
	"os"
	"strings"
)

// Instruction is one English instruction read from a batch file
type Instruction struct {
	Line int // 1-based line number in the batch file
	Text string
}

// ReadBatchFile reads English instructions from a file, one per line.
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]Instruction, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return ParseInstructions(string(content)), nil
}

// ParseInstructions parses batch file content
func ParseInstructions(content string) []Instruction {
	var instructions []Instruction

	content = strings.TrimPrefix(content, "\ufeff")
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		instructions = append(instructions, Instruction{
			Line: i + 1,
			Text: line,
		})
	}

	return instructions
}
