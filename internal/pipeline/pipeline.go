package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/acctdiff/internal/cache"
	"github.com/ppiankov/acctdiff/internal/extract"
	"github.com/ppiankov/acctdiff/internal/logging"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/ppiankov/acctdiff/internal/reconcile"
	"github.com/ppiankov/acctdiff/internal/score"
	"github.com/rs/zerolog"
)

// DefaultMaxBytes caps the size of a single input list
const DefaultMaxBytes = 32 << 20

// Pipeline orchestrates loading, reconciling, scoring and rendering
type Pipeline struct {
	loader   *Loader
	engine   *reconcile.Engine
	scorer   *score.Scorer
	renderer *Renderer
	cache    cache.Cache
	config   *model.Config
	log      zerolog.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithStdin sets the reader used for "-" inputs
func WithStdin(r io.Reader) Option {
	return func(p *Pipeline) {
		p.loader = NewLoader(r, DefaultMaxBytes)
	}
}

// WithCache replaces the result cache
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	mode, err := extract.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	var c cache.Cache = cache.NopCache{}
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}

	p := &Pipeline{
		loader: NewLoader(os.Stdin, DefaultMaxBytes),
		engine: reconcile.NewEngine(
			reconcile.WithMode(mode),
			reconcile.WithParallel(cfg.Concurrency.ParallelSides),
		),
		scorer:   score.NewScorer(),
		renderer: NewRenderer(cfg.Output.Color, cfg.Output.Debug),
		cache:    c,
		config:   cfg,
		log:      *logging.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Mode returns the extraction mode in use
func (p *Pipeline) Mode() extract.Mode {
	return p.engine.Extractor().Mode()
}

// ComparePaths loads two inputs ("-" for stdin) and compares them
func (p *Pipeline) ComparePaths(ctx context.Context, name, sourcePath, targetPath string) (*model.Report, error) {
	source, target, err := p.loader.LoadPair(ctx, sourcePath, targetPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	if name == "" && sourcePath != StdinPath && targetPath != StdinPath {
		name = source.Subject + " vs " + target.Subject
	}

	report := p.CompareText(name, source.Path, target.Path, source.Text, target.Text)
	return report, nil
}

// CompareText compares two already-loaded texts. It never fails.
func (p *Pipeline) CompareText(name, sourcePath, targetPath, sourceText, targetText string) *model.Report {
	start := time.Now()
	mode := p.Mode()
	key := cache.Key(string(mode), sourceText, targetText)

	result, cached := p.lookup(key)
	if !cached {
		result = p.engine.Reconcile(sourceText, targetText)
		p.store(key, result)
	}

	extractor := p.engine.Extractor()
	report := &model.Report{
		Name:        name,
		SourcePath:  sourcePath,
		TargetPath:  targetPath,
		Mode:        string(mode),
		ComparedAt:  time.Now().UTC(),
		Cached:      cached,
		Result:      result,
		Summary:     p.scorer.Summarize(result),
		SourceLines: extractor.Segments(sourceText),
		TargetLines: extractor.Segments(targetText),
	}

	p.log.Debug().
		Str("name", name).
		Str("mode", string(mode)).
		Bool("cached", cached).
		Int("source_records", len(result.Source.Records)).
		Int("target_records", len(result.Target.Records)).
		Int("matched", result.Matched.Len()).
		Int("missing", len(result.Missing)).
		Int("extra", len(result.Extra)).
		Dur("took", time.Since(start)).
		Msg("compared account lists")

	if warning := score.DuplicateWarning(result); warning != "" {
		p.log.Info().Str("name", name).Msg(warning)
	}

	return report
}

// ExtractPath loads one input and extracts its records
func (p *Pipeline) ExtractPath(ctx context.Context, path string) ([]model.Record, error) {
	in, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	records := p.engine.Extractor().Extract(in.Text)

	p.log.Debug().Str("path", in.Path).Int("records", len(records)).Msg("extracted records")
	return records, nil
}

// LoadText loads one input as text
func (p *Pipeline) LoadText(ctx context.Context, path string) (string, error) {
	in, err := p.loader.Load(ctx, path)
	if err != nil {
		return "", fmt.Errorf("load: %w", err)
	}
	return in.Text, nil
}

func (p *Pipeline) lookup(key string) (model.Result, bool) {
	val, ok := p.cache.Get(key)
	if !ok {
		return model.Result{}, false
	}

	result, ok := val.(model.Result)
	if !ok {
		p.log.Warn().Str("type", fmt.Sprintf("%T", val)).Msg("discarding unexpected cache entry")
		_ = p.cache.Delete(key)
		return model.Result{}, false
	}
	return result, true
}

func (p *Pipeline) store(key string, result model.Result) {
	// Shared with cache hits; results are read-only after Reconcile
	if err := p.cache.Set(key, result, p.config.Cache.TTL); err != nil {
		p.log.Warn().Err(err).Msg("cache store failed")
	}
}

// Targets lists the optional report files to write
type Targets struct {
	JSON     string
	Markdown string
	HTML     string
}

// RenderReport writes the report to stdout in the configured format and to any target files
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, targets Targets) error {
	if err := p.renderStdout(w, report); err != nil {
		return fmt.Errorf("render %s: %w", p.config.Output.Format, err)
	}

	if targets.JSON != "" {
		if err := p.renderer.RenderJSON(report, targets.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.log.Info().Str("path", targets.JSON).Msg("wrote JSON report")
	}

	if targets.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, targets.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.log.Info().Str("path", targets.Markdown).Msg("wrote Markdown report")
	}

	if targets.HTML != "" {
		if err := p.renderer.RenderHTML(report, targets.HTML); err != nil {
			return fmt.Errorf("render HTML: %w", err)
		}
		p.log.Info().Str("path", targets.HTML).Msg("wrote HTML report")
	}

	return nil
}

func (p *Pipeline) renderStdout(w io.Writer, report *model.Report) error {
	format, err := ParseFormat(p.config.Output.Format)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return p.renderer.WriteJSON(w, report)
	case FormatYAML:
		return p.renderer.WriteYAML(w, report)
	case FormatTable:
		p.renderer.RenderSummary(w, report)
		return p.renderer.RenderTable(w, report)
	case FormatNone:
		return nil
	default:
		p.renderer.RenderSummary(w, report)
		if p.config.Output.Verbose {
			p.renderer.RenderLines(w, report)
		}
		return nil
	}
}
