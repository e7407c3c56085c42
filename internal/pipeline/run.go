// Package pipeline provides the analysis pipeline and the controller that
// drives stored analysis runs through their lifecycle.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/pipeline/steps"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// waves is the stage execution plan derived from the registry
var waves = mustWaves()

func mustWaves() [][]string {
	w, err := steps.Waves()
	if err != nil {
		panic(err)
	}
	return w
}

// StageError wraps the failure of one pipeline stage
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage    string        `json:"stage"`
	Category string        `json:"category"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration_ns"`
}

// ProgressCallback is called when a stage finishes. Stages of one wave run
// concurrently, so the callback must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics records stage durations
func WithMetrics(metrics *observability.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// WithProgress sets a callback invoked after every stage
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) {
		p.onProgress = cb
	}
}

// WithExtractor replaces the résumé signal extractor
func WithExtractor(e *experience.Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// Pipeline turns one résumé and one job posting into a MatchResult. It holds
// no per-analysis state and may serve concurrent analyses.
type Pipeline struct {
	tagger     *skills.Tagger
	analyzer   *parsing.Analyzer
	extractor  *experience.Extractor
	engine     *ranking.Engine
	logger     *zap.Logger
	metrics    *observability.Metrics
	onProgress ProgressCallback
}

// New creates a Pipeline over the taxonomy
func New(taxonomy *skills.Taxonomy, opts ...Option) *Pipeline {
	tagger := skills.NewTagger(taxonomy)
	p := &Pipeline{
		tagger:    tagger,
		analyzer:  parsing.NewAnalyzer(tagger),
		extractor: experience.NewExtractor(),
		engine:    ranking.NewEngine(taxonomy),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analysis is the output of one pipeline execution
type Analysis struct {
	Result       *types.MatchResult
	ResumeSkills *types.ExtractedSkillSet
	ResumeFacets *types.ResumeFacets
	JobFacets    *types.JobFacets
	Stages       []steps.StageResult
	Duration     time.Duration
}

// state carries stage outputs. Stages of one wave write distinct fields.
type state struct {
	resume     *types.Resume
	resumeText string
	jobText    string

	resumeSkills *types.ExtractedSkillSet
	resumeFacets *types.ResumeFacets
	jobFacets    *types.JobFacets
	result       *types.MatchResult
}

// Analyze compares a stored résumé with a stored job posting
func (p *Pipeline) Analyze(ctx context.Context, resume *types.Resume, job *types.JobPosting) (*Analysis, error) {
	if resume == nil {
		return nil, errors.New("resume is required")
	}
	if job == nil {
		return nil, errors.New("job posting is required")
	}
	return p.AnalyzeText(ctx, experience.ComposeText(resume), resume, JobText(job))
}

// AnalyzeText compares résumé text with job text. The structured résumé is
// optional and only fills gaps the text leaves.
func (p *Pipeline) AnalyzeText(ctx context.Context, resumeText string, resume *types.Resume, jobText string) (*Analysis, error) {
	st := &state{resume: resume, resumeText: resumeText, jobText: jobText}
	start := time.Now()

	var mu sync.Mutex
	results := make(map[string]steps.StageResult, len(steps.StageRegistry))

	for _, wave := range waves {
		g, gCtx := errgroup.WithContext(ctx)
		for _, name := range wave {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					mu.Lock()
					results[name] = steps.StageResult{Stage: name, Status: steps.StatusSkipped}
					mu.Unlock()
					return err
				}

				stageStart := time.Now()
				err := p.runStageSafe(name, st)
				res := steps.StageResult{Stage: name, Status: steps.StatusCompleted, Duration: time.Since(stageStart)}
				if err != nil {
					res.Status = steps.StatusFailed
					res.Error = err.Error()
				}

				mu.Lock()
				results[name] = res
				mu.Unlock()
				p.finishStage(res)

				if err != nil {
					return &StageError{Stage: name, Cause: err}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	analysis := &Analysis{
		Result:       st.result,
		ResumeSkills: st.resumeSkills,
		ResumeFacets: st.resumeFacets,
		JobFacets:    st.jobFacets,
		Stages:       make([]steps.StageResult, 0, len(results)),
		Duration:     time.Since(start),
	}
	for _, wave := range waves {
		for _, name := range wave {
			analysis.Stages = append(analysis.Stages, results[name])
		}
	}
	return analysis, nil
}

// runStageSafe runs one stage and returns a panic as its error. Stage
// goroutines are outside the controller's recover.
func (p *Pipeline) runStageSafe(name string, st *state) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis panicked: %v", r)
		}
	}()
	return p.runStage(name, st)
}

func (p *Pipeline) runStage(name string, st *state) error {
	switch name {
	case steps.StageTagResume:
		st.resumeSkills = p.tagger.Tag(st.resumeText)
	case steps.StageAnalyzeJob:
		st.jobFacets = p.analyzer.Analyze(st.jobText)
	case steps.StageAnalyzeResume:
		st.resumeFacets = p.extractor.Analyze(st.resumeText, st.resume)
	case steps.StageScore:
		result, err := p.engine.Score(ranking.Input{
			ResumeSkills: st.resumeSkills,
			Resume:       st.resumeFacets,
			Job:          st.jobFacets,
			ResumeText:   st.resumeText,
			JobText:      st.jobText,
		})
		if err != nil {
			return err
		}
		st.result = result
	default:
		return fmt.Errorf("unknown stage: %s", name)
	}
	return nil
}

func (p *Pipeline) finishStage(res steps.StageResult) {
	p.metrics.RecordStage(res.Stage, res.Duration.Seconds())
	p.logger.Debug("stage finished",
		zap.String("stage", res.Stage),
		zap.String("status", res.Status),
		zap.Duration("duration", res.Duration))

	if p.onProgress != nil {
		p.onProgress(ProgressEvent{
			Stage:    res.Stage,
			Category: steps.StageRegistry[res.Stage].Category,
			Message:  fmt.Sprintf("%s %s", res.Stage, res.Status),
			Duration: res.Duration,
		})
	}
}
