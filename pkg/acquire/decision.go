package acquire

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/jarlens/pkg/maven"
)

// Strategy is the operator's answer when an artifact is missing locally.
type Strategy int

const (
	StrategySources Strategy = iota + 1 // download the sources archive
	StrategyMain                        // download the primary archive
	StrategyBoth                        // download sources, then primary; prefer sources
	StrategySkip                        // skip this coordinate
	StrategyOffline                     // enter offline mode
)

// Strategies lists every strategy in menu order.
var Strategies = []Strategy{StrategySources, StrategyMain, StrategyBoth, StrategySkip, StrategyOffline}

func (s Strategy) String() string {
	switch s {
	case StrategySources:
		return "sources"
	case StrategyMain:
		return "main"
	case StrategyBoth:
		return "both"
	case StrategySkip:
		return "skip"
	case StrategyOffline:
		return "offline"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Label is the menu text for s.
func (s Strategy) Label() string {
	switch s {
	case StrategySources:
		return "Download sources"
	case StrategyMain:
		return "Download main jar"
	case StrategyBoth:
		return "Download both"
	case StrategySkip:
		return "Skip this dependency"
	case StrategyOffline:
		return "Go offline"
	}
	return s.String()
}

// ParseStrategy parses a strategy name as returned by [Strategy.String].
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Strategies {
		if st.String() == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (want sources, main, both, skip or offline)", s)
}

// Kind names the archive a download confirmation is about.
type Kind string

const (
	KindSources Kind = "sources"
	KindMain    Kind = "main"
)

func (k Kind) classifier() string {
	if k == KindSources {
		return maven.ClassifierSources
	}
	return maven.ClassifierNone
}

// DecisionProvider answers the acquirer's questions when an artifact is not
// available locally. The console implementation lives in the CLI; [Scripted]
// and [Fixed] serve tests and non-interactive runs.
//
// The acquirer never calls a provider concurrently.
type DecisionProvider interface {
	// Choose picks what to do about a missing coordinate. An error is
	// treated as [StrategySkip].
	Choose(ctx context.Context, coord maven.Coordinate) (Strategy, error)
	// Confirm approves one concrete download. An error is treated as a
	// declined confirmation.
	Confirm(ctx context.Context, coord maven.Coordinate, kind Kind) (bool, error)
}

// Scripted replays a fixed sequence of answers. Once the choices run out it
// answers skip; once the confirmations run out it declines.
type Scripted struct {
	mu            sync.Mutex
	choices       []Strategy
	confirmations []bool
	chosen        int
	confirmed     int
}

// NewScripted creates a provider that answers Choose with choices and
// Confirm with confirmations, in order.
func NewScripted(choices []Strategy, confirmations []bool) *Scripted {
	return &Scripted{choices: choices, confirmations: confirmations}
}

func (s *Scripted) Choose(context.Context, maven.Coordinate) (Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.chosen
	s.chosen++
	if i >= len(s.choices) {
		return StrategySkip, nil
	}
	return s.choices[i], nil
}

func (s *Scripted) Confirm(context.Context, maven.Coordinate, Kind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.confirmed
	s.confirmed++
	if i >= len(s.confirmations) {
		return false, nil
	}
	return s.confirmations[i], nil
}

// Prompts returns how many Choose and Confirm calls were made.
func (s *Scripted) Prompts() (choose, confirm int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chosen, s.confirmed
}

// Fixed gives the same answer to every question.
type Fixed struct {
	Choice  Strategy
	Approve bool
}

func (f Fixed) Choose(context.Context, maven.Coordinate) (Strategy, error) {
	return f.Choice, nil
}

func (f Fixed) Confirm(context.Context, maven.Coordinate, Kind) (bool, error) {
	return f.Approve, nil
}
