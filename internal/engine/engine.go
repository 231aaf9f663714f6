// Package engine wires the claim-evaluation components into one
// session-scoped unit: detection, evaluation, suggestions, modifications,
// and the remembrance lookup.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ebarkova/lede/internal/detect"
	"github.com/ebarkova/lede/internal/index"
	"github.com/ebarkova/lede/internal/model"
	"github.com/ebarkova/lede/internal/modify"
	"github.com/ebarkova/lede/internal/monitor"
	"github.com/ebarkova/lede/internal/remember"
	"github.com/ebarkova/lede/internal/retrieve"
	"github.com/ebarkova/lede/internal/toulmin"
)

// Engine owns the state of one writing session: detected claims, their
// evaluations, active suggestions, and the semantic index. All
// dependencies are injected; nothing here is a singleton.
type Engine struct {
	cfg *model.Config

	detector  *detect.Detector
	monitor   *monitor.Monitor
	evaluator *toulmin.Evaluator
	modifier  *modify.Modifier
	indexer   *index.Indexer
	agent     *remember.Agent

	// judgeLimiter bounds LLM evaluation volume across the session.
	judgeLimiter *rate.Limiter

	detectDeb   *debouncer
	rememberDeb *debouncer

	mu           sync.Mutex
	textGen      uint64
	claims       []model.Claim
	diagrams     map[string]model.ToulminDiagram      // keyed by claim text
	suggCache    map[string][]model.WritingSuggestion // keyed by claim text
	suggestions  []model.WritingSuggestion
	notebookHash string

	logger *zap.Logger
}

// NewEngine builds a session engine. judge may be nil (heuristics only);
// embed may be nil (index stays empty, relevance lookups return nothing).
func NewEngine(cfg *model.Config, judge toulmin.Judge, embed index.EmbedFn, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if embed == nil {
		embed = func(ctx context.Context, text string) ([]float32, error) {
			return nil, nil
		}
	}

	retriever := retrieve.NewRetriever(cfg.Engine.MaxEvidenceItems, cfg.Engine.RelevanceFloor, logger)
	mon := monitor.NewMonitor(logger)
	ix := index.NewIndexer(logger)

	return &Engine{
		cfg:          cfg,
		detector:     detect.NewDetector(logger),
		monitor:      mon,
		evaluator:    toulmin.NewEvaluator(retriever, judge, logger),
		modifier:     modify.NewModifier(logger),
		indexer:      ix,
		agent:        remember.NewAgent(mon, ix, embed, cfg.Engine.TopKAnalyses, logger),
		judgeLimiter: rate.NewLimiter(rate.Limit(cfg.Engine.JudgeRatePerSecond), cfg.Engine.JudgeBurst),
		detectDeb:    newDebouncer(cfg.Engine.DetectionDebounce),
		rememberDeb:  newDebouncer(cfg.Engine.RemembranceDebounce),
		diagrams:     make(map[string]model.ToulminDiagram),
		suggCache:    make(map[string][]model.WritingSuggestion),
		logger:       logger,
	}
}

// DetectClaims runs detection synchronously and replaces the session's
// claim list. Detection never errors; malformed text yields no claims.
func (e *Engine) DetectClaims(text string) []model.Claim {
	claims := e.detector.Detect(text)

	e.mu.Lock()
	e.claims = claims
	e.mu.Unlock()
	return claims
}

// OnTextChanged schedules debounced re-detection. The claim list only
// updates if no newer text arrives before the quiet period ends, and the
// result is dropped if a newer snapshot superseded it while detecting.
func (e *Engine) OnTextChanged(text string) {
	e.mu.Lock()
	e.textGen++
	gen := e.textGen
	e.mu.Unlock()

	e.detectDeb.trigger(func() {
		claims := e.detector.Detect(text)

		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.textGen {
			e.logger.Debug("stale detection discarded")
			return
		}
		e.claims = claims
	})
}

// OnCursorMoved schedules a debounced remembrance lookup. cb receives the
// ranked analyses; superseded lookups never fire it.
func (e *Engine) OnCursorMoved(ctx context.Context, text string, cursor int, activeHypothesis string, nb model.NotebookSnapshot, cb func([]model.RelevantAnalysis)) {
	e.rememberDeb.trigger(func() {
		cb(e.agent.RelevantAnalyses(ctx, text, cursor, activeHypothesis, nb))
	})
}

// EvaluateClaim evaluates one claim against the notebook, rate-limited to
// bound judge volume. Unchanged notebook content reuses the cached
// diagram rather than re-calling the judge.
func (e *Engine) EvaluateClaim(ctx context.Context, claim model.Claim, nb model.NotebookSnapshot) (model.ToulminDiagram, error) {
	hash := nb.ContentHash()

	e.mu.Lock()
	if hash == e.notebookHash {
		if cached, ok := e.diagrams[claim.Text]; ok {
			e.mu.Unlock()
			return cached, nil
		}
	}
	e.mu.Unlock()

	if err := e.judgeLimiter.Wait(ctx); err != nil {
		return model.ToulminDiagram{}, err
	}

	diagram, err := e.evaluator.Evaluate(ctx, claim, nb)
	if err != nil {
		return model.ToulminDiagram{}, err
	}

	e.mu.Lock()
	if hash != e.notebookHash {
		// Notebook changed since the last batch; older diagrams and
		// suggestions are stale.
		e.diagrams = make(map[string]model.ToulminDiagram)
		e.suggCache = make(map[string][]model.WritingSuggestion)
		e.notebookHash = hash
	}
	e.diagrams[claim.Text] = diagram
	e.mu.Unlock()
	return diagram, nil
}

// Analyze runs the full batch pass: detect claims, evaluate each
// sequentially, and build suggestions. One claim's failure is recorded and
// does not abort the rest.
func (e *Engine) Analyze(ctx context.Context, text string, nb model.NotebookSnapshot) *model.Report {
	claims := e.DetectClaims(text)

	report := &model.Report{
		AnalyzedAt:   time.Now().UTC(),
		NotebookHash: nb.ContentHash(),
		Claims:       claims,
	}

	var suggestions []model.WritingSuggestion
	for i := range claims {
		claims[i].Status = model.ClaimStatusEvaluating
		diagram, err := e.EvaluateClaim(ctx, claims[i], nb)
		if err != nil {
			claims[i].Status = model.ClaimStatusDetected
			report.Failures = append(report.Failures, model.EvaluationFailure{
				ClaimID: claims[i].ID,
				Error:   err.Error(),
			})
			e.logger.Warn("claim evaluation failed",
				zap.String("claim_id", claims[i].ID),
				zap.Error(err),
			)
			continue
		}
		claims[i].Status = model.ClaimStatusEvaluated
		report.Diagrams = append(report.Diagrams, diagram)
		suggestions = append(suggestions, e.suggestionsFor(claims[i], diagram)...)
	}
	report.Suggestions = suggestions

	e.mu.Lock()
	e.claims = claims
	e.suggestions = suggestions
	e.mu.Unlock()

	return report
}

// suggestionsFor reuses cached suggestions while the notebook is unchanged,
// so suggestion IDs stay stable across repeated analyses of the same claim.
// Detection mints fresh claim IDs each pass; reused suggestions are rebound
// to the current claim's ID and position.
func (e *Engine) suggestionsFor(claim model.Claim, diagram model.ToulminDiagram) []model.WritingSuggestion {
	e.mu.Lock()
	cached, ok := e.suggCache[claim.Text]
	e.mu.Unlock()

	if !ok {
		cached = toulmin.BuildSuggestions(claim, diagram)
		e.mu.Lock()
		e.suggCache[claim.Text] = cached
		e.mu.Unlock()
	}

	out := make([]model.WritingSuggestion, len(cached))
	copy(out, cached)
	for i := range out {
		out[i].ClaimID = claim.ID
		out[i].Position = claim.Position
	}
	return out
}

// GenerateModifications returns rewrite candidates for a claim text given
// its evaluation.
func (e *Engine) GenerateModifications(kind model.ModificationKind, claimText string, diagram model.ToulminDiagram) []model.ModificationCandidate {
	claim := model.Claim{ID: diagram.ClaimID, Text: claimText}
	return e.modifier.Generate(kind, claim, diagram)
}

// RelevantAnalyses runs the remembrance lookup synchronously.
func (e *Engine) RelevantAnalyses(ctx context.Context, text string, cursor int, activeHypothesis string, nb model.NotebookSnapshot) []model.RelevantAnalysis {
	return e.agent.RelevantAnalyses(ctx, text, cursor, activeHypothesis, nb)
}

// Reindex forces a semantic index rebuild.
func (e *Engine) Reindex(ctx context.Context, nb model.NotebookSnapshot) error {
	return e.agent.Reindex(ctx, nb)
}

// Claims returns the current claim list.
func (e *Engine) Claims() []model.Claim {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Claim, len(e.claims))
	copy(out, e.claims)
	return out
}

// Suggestions returns the active suggestions from the last analysis.
func (e *Engine) Suggestions() []model.WritingSuggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.WritingSuggestion, len(e.suggestions))
	copy(out, e.suggestions)
	return out
}

// Close cancels pending debounced work.
func (e *Engine) Close() {
	e.detectDeb.stop()
	e.rememberDeb.stop()
}
