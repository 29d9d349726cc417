// Package turn orchestrates turn resolution: precheck, ledger append,
// header continuity, and projection refresh.
package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/thedeuce2/Game-Master/internal/errors"
	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/ledger/projection"
	"github.com/thedeuce2/Game-Master/internal/precheck"
	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
)

const tracerName = "github.com/thedeuce2/Game-Master/internal/turn"

// defaultHistoryDepth is the context window used when a proposal asks for
// prechecking without naming a depth.
const defaultHistoryDepth = 20

var (
	// ErrEmptyPlayerID indicates a proposal without a player.
	ErrEmptyPlayerID = apperrors.New(apperrors.CodeProposalEmptyPlayerID, "proposal player id is required")
	// ErrEmptySummary indicates a proposal without a narrative summary.
	ErrEmptySummary = apperrors.New(apperrors.CodeProposalEmptySummary, "proposal summary is required")
)

// Proposal is a narrator-submitted turn awaiting resolution.
type Proposal struct {
	PlayerID string
	SceneID  string
	Summary  string
	Detail   string
	// NPCIDs lists the NPCs involved in this turn.
	NPCIDs   []string
	Outcomes []ledger.Outcome
	// Header carries incoming continuity fields; empty fields leave the
	// stored header untouched.
	Header scene.Header
	// Precheck requests an advisory consistency report.
	Precheck bool
	// HistoryDepth bounds the context window the precheck replays. Zero
	// means unspecified and falls back to the default window; a negative
	// depth disables history, which fails the continuity rule.
	HistoryDepth int
}

// Result is the outcome of a resolved turn.
type Result struct {
	EventIDs []string
	Header   scene.Header
	// Report is present when the proposal requested prechecking. A failed
	// report never blocks resolution.
	Report    *precheck.Report
	Balances  []projection.Balance
	Inventory []projection.Item
}

// Resolver records proposed turns against the ledger.
type Resolver struct {
	events  storage.EventStore
	headers storage.HeaderStore
	checker *precheck.Checker
	cache   *projection.Cache
	seed    scene.Header
	clock   func() time.Time
	tracer  trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithChecker sets the precheck checker. A nil checker disables prechecks.
func WithChecker(checker *precheck.Checker) Option {
	return func(r *Resolver) { r.checker = checker }
}

// WithCache sets the projection cache used to refresh derived views.
func WithCache(cache *projection.Cache) Option {
	return func(r *Resolver) { r.cache = cache }
}

// WithSeedHeader overrides the header used before any turn has
// established continuity.
func WithSeedHeader(seed scene.Header) Option {
	return func(r *Resolver) { r.seed = seed }
}

// NewResolver creates a Resolver with default dependencies.
func NewResolver(events storage.EventStore, headers storage.HeaderStore, opts ...Option) *Resolver {
	r := &Resolver{
		events:  events,
		headers: headers,
		checker: precheck.NewChecker(),
		seed:    scene.Seed(),
		clock:   time.Now,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.cache == nil {
		r.cache = projection.NewCache(events)
	}
	return r
}

// ResolveTurn validates the proposal, optionally runs the precheck, appends
// one event per outcome atomically, merges the continuity header, and
// returns the refreshed projections for the proposal's player.
//
// Precheck results are advisory data on the result, never a cause for
// rejection; rejection policy belongs to the caller.
func (r *Resolver) ResolveTurn(ctx context.Context, proposal Proposal) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "turn.Resolve", trace.WithAttributes(
		attribute.String("player_id", proposal.PlayerID),
		attribute.String("scene_id", proposal.SceneID),
		attribute.Int("outcomes", len(proposal.Outcomes)),
	))
	defer span.End()

	if strings.TrimSpace(proposal.PlayerID) == "" {
		return Result{}, ErrEmptyPlayerID
	}
	if strings.TrimSpace(proposal.Summary) == "" {
		return Result{}, ErrEmptySummary
	}

	var result Result

	if proposal.Precheck && r.checker != nil {
		report, err := r.Precheck(ctx, proposal)
		if err != nil {
			return Result{}, err
		}
		result.Report = &report
		span.SetAttributes(attribute.Bool("precheck_passed", report.Passed()))
	}

	appended, err := r.appendOutcomes(ctx, proposal)
	if err != nil {
		return Result{}, err
	}
	result.EventIDs = make([]string, 0, len(appended))
	for _, evt := range appended {
		result.EventIDs = append(result.EventIDs, evt.EventID)
	}

	header, err := r.mergeHeader(ctx, proposal.Header)
	if err != nil {
		return Result{}, err
	}
	result.Header = header

	balances, err := r.cache.Balances(ctx, ledger.OwnerPlayer, proposal.PlayerID, "")
	if err != nil {
		return Result{}, fmt.Errorf("refresh balances: %w", err)
	}
	result.Balances = balances

	inventory, err := r.cache.Inventory(ctx, ledger.OwnerPlayer, proposal.PlayerID)
	if err != nil {
		return Result{}, fmt.Errorf("refresh inventory: %w", err)
	}
	result.Inventory = inventory

	return result, nil
}

// Precheck runs the advisory consistency rules against the proposal and a
// bounded window of recent events for the proposal's player.
func (r *Resolver) Precheck(ctx context.Context, proposal Proposal) (precheck.Report, error) {
	ctx, span := r.tracer.Start(ctx, "turn.Precheck")
	defer span.End()

	depth := proposal.HistoryDepth
	if depth == 0 {
		depth = defaultHistoryDepth
	}

	var history []ledger.Event
	if depth > 0 {
		var err error
		history, err = r.events.ListEvents(ctx, storage.EventFilter{
			PlayerID: proposal.PlayerID,
			Limit:    depth,
			Order:    storage.OrderDesc,
		})
		if err != nil {
			return precheck.Report{}, fmt.Errorf("load recent history: %w", err)
		}
	}

	var scopes []ledger.KnowledgeScope
	for _, outcome := range proposal.Outcomes {
		scopes = append(scopes, outcome.Knowledge...)
	}

	return r.checker.Check(precheck.Input{
		Summary:      proposal.Summary,
		NPCIDs:       proposal.NPCIDs,
		HistoryDepth: depth,
		Scopes:       scopes,
	}, history), nil
}

// appendOutcomes turns the proposal into ledger events, one per outcome in
// proposal order, and appends them as a single atomic batch. A proposal
// with no outcomes still records one event so the narrative itself becomes
// canonical.
func (r *Resolver) appendOutcomes(ctx context.Context, proposal Proposal) ([]ledger.Event, error) {
	base := ledger.Event{
		Timestamp: r.clock().UTC(),
		PlayerID:  proposal.PlayerID,
		SceneID:   proposal.SceneID,
		Summary:   proposal.Summary,
		Detail:    proposal.Detail,
	}

	var batch []ledger.Event
	if len(proposal.Outcomes) == 0 {
		batch = []ledger.Event{base}
	} else {
		batch = make([]ledger.Event, 0, len(proposal.Outcomes))
		for _, outcome := range proposal.Outcomes {
			evt := base
			evt.Outcomes = []ledger.Outcome{outcome}
			batch = append(batch, evt)
		}
	}

	appended, err := r.events.AppendEvents(ctx, batch)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			// Validation failures keep their code; nothing was written.
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "append turn events", err)
	}
	return appended, nil
}

// mergeHeader applies the proposal's header fields over the stored header
// as one atomic read-merge-write. An all-empty incoming header still
// returns current continuity.
func (r *Resolver) mergeHeader(ctx context.Context, incoming scene.Header) (scene.Header, error) {
	header, err := r.headers.UpdateHeader(ctx, func(stored scene.Header) scene.Header {
		if stored.IsZero() {
			stored = r.seed
		}
		return scene.Merge(stored, incoming)
	})
	if err != nil {
		return scene.Header{}, fmt.Errorf("merge scene header: %w", err)
	}
	return header, nil
}
