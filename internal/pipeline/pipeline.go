// Package pipeline orchestrates the complete transformation: segmentation,
// decomposition, epistemic tagging, entity and actor resolution, event
// extraction, temporal reasoning, policy application, invariant checking,
// selection, and rendering. Passes run in a fixed order; a failing pass
// stops the run with an error-status result rather than partial output.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pvoloshyn/veridian/internal/cache"
	"github.com/pvoloshyn/veridian/internal/decompose"
	"github.com/pvoloshyn/veridian/internal/entity"
	"github.com/pvoloshyn/veridian/internal/epistemic"
	"github.com/pvoloshyn/veridian/internal/event"
	"github.com/pvoloshyn/veridian/internal/invariant"
	"github.com/pvoloshyn/veridian/internal/llm"
	"github.com/pvoloshyn/veridian/internal/model"
	"github.com/pvoloshyn/veridian/internal/nlp"
	"github.com/pvoloshyn/veridian/internal/policy"
	"github.com/pvoloshyn/veridian/internal/report"
	"github.com/pvoloshyn/veridian/internal/segment"
	"github.com/pvoloshyn/veridian/internal/selection"
	"github.com/pvoloshyn/veridian/internal/temporal"
	"github.com/pvoloshyn/veridian/internal/util"
)

// Pipeline runs the transformation passes in order
type Pipeline struct {
	config *model.Config
	log    *zap.Logger

	parser        nlp.Parser
	segmenter     *segment.Segmenter
	annotator     *segment.Annotator
	decomposer    *decompose.Decomposer
	tagger        *epistemic.Tagger
	attributor    *epistemic.Attributor
	linker        *epistemic.Linker
	entityRes     *entity.Resolver
	actorRes      *entity.ActorResolver
	eventExt      *event.Extractor
	eventCls      *event.Classifier
	exprExt       *temporal.ExpressionExtractor
	relBuilder    *temporal.RelationBuilder
	timelineBuild *temporal.TimelineBuilder
	gapDetector   *temporal.GapDetector
	invariants    *invariant.Engine
	selector      *selection.Selector
	assessor      *report.Assessor
	renderer      *report.Renderer

	rulesets   *cache.RulesetCache
	fetcher    *Fetcher
	robots     *util.RobotsChecker
	summarizer *llm.Summarizer
}

// NewPipeline creates a pipeline from configuration. The logger may be nil.
func NewPipeline(cfg *model.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.Warn("LLM provider initialization failed", zap.Error(err))
		} else {
			summarizer = s
		}
	}

	var rulesets *cache.RulesetCache
	if cfg.Cache.Enabled {
		rulesets = cache.NewRulesetCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Pipeline{
		config:        cfg,
		log:           log,
		parser:        nlp.NewHeuristicParser(),
		segmenter:     segment.NewSegmenter(),
		annotator:     segment.NewAnnotator(),
		decomposer:    decompose.NewDecomposer(),
		tagger:        epistemic.NewTagger(),
		attributor:    epistemic.NewAttributor(),
		linker:        epistemic.NewLinker(),
		entityRes:     entity.NewResolver(),
		actorRes:      entity.NewActorResolver(),
		eventExt:      event.NewExtractor(),
		eventCls:      event.NewClassifier(),
		exprExt:       temporal.NewExpressionExtractor(),
		relBuilder:    temporal.NewRelationBuilder(),
		timelineBuild: temporal.NewTimelineBuilder(),
		gapDetector:   temporal.NewGapDetector(),
		invariants:    invariant.NewEngine(),
		selector:      selection.NewSelector(cfg.Selection.Mode),
		assessor:      report.NewAssessor(),
		renderer:      report.NewRenderer(cfg.Output.IncludeFooter),
		rulesets:      rulesets,
		fetcher:       NewFetcher(cfg.HTTP),
		robots:        util.NewRobotsChecker(util.NormalizeUserAgent(cfg.HTTP.UserAgent), cfg.HTTP.Timeout),
		summarizer:    summarizer,
	}
}

// Transform runs the full pass sequence over the request text.
// It always returns a result; pass failures surface as status=error with a
// PASS_ERROR diagnostic, never as partial content.
func (p *Pipeline) Transform(ctx context.Context, req *model.TransformRequest) *model.TransformResult {
	res := &model.TransformResult{
		RequestID: req.RequestID,
		Status:    model.StatusSuccess,
		CreatedAt: time.Now().UTC(),
	}
	if res.RequestID == "" {
		res.RequestID = uuid.NewString()
	}

	pass := func(name string) { res.Trace = append(res.Trace, name) }
	fail := func(name string, err error) *model.TransformResult {
		p.log.Error("pass failed", zap.String("pass", name), zap.Error(err))
		res.Status = model.StatusError
		res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
			Level:   model.DiagError,
			Code:    model.CodePassError,
			Message: err.Error(),
			Pass:    name,
		})
		return res
	}

	// Segmentation
	pass("segment")
	text := segment.Normalize(req.Text)
	parse, err := p.parser.Parse(ctx, text)
	if err != nil {
		return fail("segment", fmt.Errorf("parse: %w", err))
	}
	res.Segments = p.segmenter.Segment(text, parse)

	// Context annotation
	pass("annotate")
	p.annotator.Annotate(res.Segments)

	// Clause decomposition
	pass("decompose")
	res.Statements = p.decomposer.Decompose(text, res.Segments, parse)

	// Epistemic tagging, attribution, provenance
	pass("epistemic")
	p.tagger.Tag(res.Statements, res.Segments)
	res.Decisions = append(res.Decisions, p.attributor.Apply(res.Statements)...)
	p.linker.Link(res.Statements)

	// Entity and coreference resolution
	pass("entity")
	ents := p.entityRes.Resolve(text, parse, res.Segments)
	res.Entities = ents.Entities
	res.Mentions = ents.Mentions
	res.Chains = ents.Chains
	res.Uncertainties = ents.Uncertainties

	// Actor resolution (splits may append statements)
	pass("actor")
	split := p.actorRes.Apply(res.Statements, res.Mentions, res.Entities, len(res.Statements)+1)
	res.Statements = append(res.Statements, split...)

	// Event extraction and classification
	pass("event")
	res.Events = p.eventExt.Extract(parse, res.Statements, res.Mentions, res.Entities)
	p.eventCls.Classify(res.Events, res.Statements, res.Segments)
	res.SpeechActs = event.ExtractSpeechActs(res.Segments, res.Mentions, res.Entities)

	// Temporal reasoning
	pass("temporal")
	res.Expressions = p.exprExt.Extract(res.Segments)
	res.Relationships = p.relBuilder.Build(res.Events, res.Expressions, res.Statements)
	res.Timeline = p.timelineBuild.Build(res.Events, res.Expressions, res.Statements)
	res.Gaps = p.gapDetector.Detect(res.Timeline, res.Events)

	// Policy application
	pass("policy")
	ruleset, err := p.loadRuleset()
	if err != nil {
		return fail("policy", err)
	}
	if ruleset != nil {
		outcome := policy.NewEngine(ruleset).Apply(res.Segments)
		res.Decisions = append(res.Decisions, outcome.Decisions...)
		res.Diagnostics = append(res.Diagnostics, outcome.Diagnostics...)
		if outcome.Refused {
			return p.refuse(res, outcome.RefusalRule)
		}
	}

	// Invariants and quarantine
	pass("invariant")
	_, quarantine := p.invariants.Run(&invariant.Input{
		Segments:   res.Segments,
		Statements: res.Statements,
		Entities:   res.Entities,
		Events:     res.Events,
		SpeechActs: res.SpeechActs,
	})
	res.Quarantine = quarantine

	// Selection
	pass("select")
	res.Selection = p.selector.Select(&selection.Input{
		Statements:    res.Statements,
		Events:        res.Events,
		SpeechActs:    res.SpeechActs,
		Entities:      res.Entities,
		Timeline:      res.Timeline,
		Gaps:          res.Gaps,
		Uncertainties: res.Uncertainties,
		Quarantine:    res.Quarantine,
	})

	// Quality assessment and rendering
	pass("render")
	res.Quality = p.assessor.Assess(res)
	res.RenderedText = p.renderer.BuildMarkdown(res)

	// Packaging validation: required artifacts, then the ruleset's post-hoc
	// checks against the rendered output
	for _, problem := range missingArtifacts(res) {
		res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
			Level:   model.DiagWarning,
			Code:    model.CodeValidationFailed,
			Message: problem,
			Pass:    "render",
		})
		res.Status = model.StatusPartial
	}
	if ruleset != nil {
		if diags := policy.RunValidation(ruleset, res.RenderedText); len(diags) > 0 {
			res.Diagnostics = append(res.Diagnostics, diags...)
			res.Status = model.StatusPartial
		}
	}

	// Optional LLM summary, generated last and never fed back
	if p.summarizer.IsEnabled() && res.Status != model.StatusError {
		summary, err := p.summarizer.GenerateSummary(ctx, res)
		if err != nil {
			p.log.Warn("LLM summary failed", zap.Error(err))
		} else {
			res.LLM = summary
		}
	}

	return res
}

// TransformURL fetches a page, extracts its visible text, and transforms it
func (p *Pipeline) TransformURL(ctx context.Context, rawURL string) (*model.TransformResult, error) {
	if p.config.HTTP.RespectRobots {
		allowed, delay, err := p.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	fetched, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	text := fetched.Body
	if isHTML(fetched.ContentType) {
		text, err = nlp.ExtractText(fetched.Body)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
	}

	return p.Transform(ctx, &model.TransformRequest{
		Text:      text,
		SourceURL: fetched.FinalURL,
	}), nil
}

// missingArtifacts lists required outputs absent from the result. A run
// that produced no segments or rendered nothing is not a success.
func missingArtifacts(res *model.TransformResult) []string {
	var out []string
	if len(res.Segments) == 0 {
		out = append(out, "no segments produced")
	}
	if strings.TrimSpace(res.RenderedText) == "" {
		out = append(out, "rendered text is empty")
	}
	return out
}

// refuse clears all content from the result. A refused transformation
// renders nothing.
func (p *Pipeline) refuse(res *model.TransformResult, ruleID string) *model.TransformResult {
	decisions := res.Decisions
	trace := res.Trace
	diags := append(res.Diagnostics, model.Diagnostic{
		Level:   model.DiagError,
		Code:    model.CodePolicyRefusal,
		Message: fmt.Sprintf("transformation refused by rule %s", ruleID),
		Pass:    "policy",
	})

	*res = model.TransformResult{
		RequestID:   res.RequestID,
		Status:      model.StatusRefused,
		CreatedAt:   res.CreatedAt,
		Decisions:   decisions,
		Diagnostics: diags,
		Trace:       trace,
	}
	res.RenderedText = p.renderer.BuildMarkdown(res)
	return res
}

// loadRuleset resolves the configured domain or ruleset file, consulting
// the cache first. No configured policy means no policy pass.
func (p *Pipeline) loadRuleset() (*model.Ruleset, error) {
	path := p.config.Policy.DomainPath
	isDomain := path != ""
	if !isDomain {
		path = p.config.Policy.RulesetPath
	}
	if path == "" {
		return nil, nil
	}

	if p.rulesets != nil {
		if rs, ok := p.rulesets.Get(path); ok {
			return rs, nil
		}
	}

	var rs *model.Ruleset
	var err error
	if isDomain {
		rs, err = policy.LoadDomain(path)
	} else {
		rs, err = policy.LoadRuleset(path)
	}
	if err != nil {
		return nil, err
	}

	if p.rulesets != nil {
		p.rulesets.Set(path, rs)
	}
	return rs, nil
}

func isHTML(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html") ||
		strings.HasPrefix(contentType, "application/xhtml")
}
