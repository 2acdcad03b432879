package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteractiveHelpListsAllCommands(t *testing.T) {
	help := strings.Join(interactiveHelp(), "\n")
	for _, command := range []string{"batch", "history", "stats", "quit"} {
		assert.Contains(t, help, "'"+command+"'")
	}
}

func TestConfidenceSummaryUsesOneScale(t *testing.T) {
	// mean 0.5, stddev 0.1 — both must come out as percentages
	line := confidenceSummary([]float64{0.4, 0.5, 0.6})
	assert.Equal(t, "Mean confidence: 50.00% (stddev 10.00%)", line)
}
