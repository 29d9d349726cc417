// Package precheck validates proposed turns against world-consistency rules.
//
// The checks are advisory: the turn resolver records a turn whether or not
// violations are found, and callers decide what to do with the report. The
// rules are lexical heuristics, not semantic guarantees, kept behind the
// Rule interface so stronger checks can replace them without touching the
// orchestrator.
package precheck

import (
	"strings"

	"github.com/thedeuce2/Game-Master/internal/ledger"
)

// Input is the slice of a proposal the validator inspects.
type Input struct {
	// Summary is the proposed narrative text.
	Summary string
	// NPCIDs lists the NPCs the proposal involves.
	NPCIDs []string
	// HistoryDepth is how many recent events of context the caller
	// requested for validation.
	HistoryDepth int
	// Scopes are the knowledge scopes the proposal's outcomes declare.
	Scopes []ledger.KnowledgeScope
}

// Rule names. Each maps to one verdict field on the Report.
const (
	RuleContinuity         = "continuity"
	RuleKnowledgeLeak      = "knowledge_leak"
	RuleActorIndividuality = "actor_individuality"
	RuleAutonomy           = "autonomy"
	RuleProgress           = "progress"
)

// Report holds one verdict per rule category plus the collected violation
// messages. It is ephemeral and never stored. True means the check passed.
type Report struct {
	Continuity         bool     `json:"continuity"`
	KnowledgeLeak      bool     `json:"knowledge_leak"`
	ActorIndividuality bool     `json:"actor_individuality"`
	Autonomy           bool     `json:"autonomy"`
	Progress           bool     `json:"progress"`
	Violations         []string `json:"violations,omitempty"`
}

// Passed reports whether every check passed.
func (r Report) Passed() bool {
	return r.Continuity && r.KnowledgeLeak && r.ActorIndividuality && r.Autonomy && r.Progress
}

// Rule is one pluggable consistency check.
type Rule interface {
	// Name returns the rule category, one of the Rule* constants.
	Name() string
	// Check returns violation messages; an empty result means the rule
	// passed.
	Check(in Input, history []ledger.Event) []string
}

// Checker runs a fixed set of rules over a proposal and recent history.
// It is stateless and side-effect free.
type Checker struct {
	rules []Rule
}

// NewChecker creates a checker. With no rules given, the default rule set
// is used.
func NewChecker(rules ...Rule) *Checker {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Checker{rules: rules}
}

// DefaultRules returns the built-in heuristic rule set.
func DefaultRules() []Rule {
	return []Rule{
		continuityRule{},
		knowledgeLeakRule{},
		individualityRule{},
		autonomyRule{},
		progressRule{},
	}
}

// Check runs every rule and assembles the report. Every category receives a
// verdict even when all pass. The progress verdict additionally fails when
// a knowledge leak was flagged, since a leaked story beat does not advance
// the story.
func (c *Checker) Check(in Input, history []ledger.Event) Report {
	report := Report{
		Continuity:         true,
		KnowledgeLeak:      true,
		ActorIndividuality: true,
		Autonomy:           true,
		Progress:           true,
	}

	for _, rule := range c.rules {
		violations := rule.Check(in, history)
		if len(violations) == 0 {
			continue
		}
		report.Violations = append(report.Violations, violations...)
		switch rule.Name() {
		case RuleContinuity:
			report.Continuity = false
		case RuleKnowledgeLeak:
			report.KnowledgeLeak = false
		case RuleActorIndividuality:
			report.ActorIndividuality = false
		case RuleAutonomy:
			report.Autonomy = false
		case RuleProgress:
			report.Progress = false
		}
	}

	if !report.KnowledgeLeak && report.Progress {
		report.Progress = false
		report.Violations = append(report.Violations, "story does not advance: a knowledge leak was flagged for this turn")
	}

	return report
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
