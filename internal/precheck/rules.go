package precheck

import (
	"fmt"
	"strings"

	"github.com/thedeuce2/Game-Master/internal/ledger"
)

// continuityRule requires a positive history window: a turn cannot be
// validated without some prior context.
type continuityRule struct{}

func (continuityRule) Name() string { return RuleContinuity }

func (continuityRule) Check(in Input, _ []ledger.Event) []string {
	if in.HistoryDepth <= 0 {
		return []string{"continuity: history depth must be positive to validate against prior events"}
	}
	return nil
}

// leakMarkers are lexical markers asserting an actor holds information they
// were never shown. Substring match, not semantics.
var leakMarkers = []string{
	"somehow knew",
	"already knew",
	"knew about",
	"knew of",
	"had always known",
	"everyone knew",
	"knew exactly what",
}

// knowledgeLeakRule flags summaries asserting knowledge outside a declared
// scope. With no private or secret scope in play, the generic markers still
// flag omniscient narration.
type knowledgeLeakRule struct{}

func (knowledgeLeakRule) Name() string { return RuleKnowledgeLeak }

func (knowledgeLeakRule) Check(in Input, _ []ledger.Event) []string {
	var violations []string
	for _, marker := range leakMarkers {
		if containsFold(in.Summary, marker) {
			violations = append(violations, fmt.Sprintf("knowledge leak: summary asserts %q, which implies undisclosed information", marker))
		}
	}
	for _, scope := range in.Scopes {
		if scope.Visibility != ledger.VisibilitySecret && scope.Visibility != ledger.VisibilityPrivate {
			continue
		}
		for _, excluded := range scope.Excluded {
			if excluded == "" {
				continue
			}
			if containsFold(in.Summary, strings.ToLower(excluded)+" kn") {
				violations = append(violations, fmt.Sprintf("knowledge leak: %q is excluded from a %s scope but the summary has them knowing", excluded, scope.Visibility))
			}
		}
	}
	return violations
}

// individualityRule rejects the same NPC listed twice, which double-counts
// one actor as two independent ones.
type individualityRule struct{}

func (individualityRule) Name() string { return RuleActorIndividuality }

func (individualityRule) Check(in Input, _ []ledger.Event) []string {
	seen := make(map[string]bool, len(in.NPCIDs))
	var violations []string
	for _, id := range in.NPCIDs {
		if id == "" {
			continue
		}
		if seen[id] {
			violations = append(violations, fmt.Sprintf("actor individuality: npc %q appears more than once in the proposal", id))
		}
		seen[id] = true
	}
	return violations
}

// autonomyMarkers are first/second-person phrasings that put words,
// thoughts, or feelings into the player's mouth.
var autonomyMarkers = []string{
	"you say",
	"you said",
	"you tell",
	"you feel",
	"you felt",
	"you think",
	"you decide",
	"you believe",
	"you want",
}

// autonomyRule keeps player speech and intent under the player's control.
type autonomyRule struct{}

func (autonomyRule) Name() string { return RuleAutonomy }

func (autonomyRule) Check(in Input, _ []ledger.Event) []string {
	var violations []string
	for _, marker := range autonomyMarkers {
		if containsFold(in.Summary, marker) {
			violations = append(violations, fmt.Sprintf("autonomy: summary asserts %q, which narrates for the player", marker))
		}
	}
	return violations
}

// minProgressLength is the shortest summary that plausibly advances the
// story. Shorter summaries are flagged as filler.
const minProgressLength = 12

// progressRule flags turns whose narrative is trivially short. The checker
// additionally fails progress when a knowledge leak was flagged.
type progressRule struct{}

func (progressRule) Name() string { return RuleProgress }

func (progressRule) Check(in Input, _ []ledger.Event) []string {
	if len(strings.TrimSpace(in.Summary)) < minProgressLength {
		return []string{"progress: summary is too short to advance the story"}
	}
	return nil
}
