package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nao1215/phishscan/internal/model"
	"github.com/nao1215/phishscan/internal/scrape"
	"github.com/nao1215/phishscan/internal/submit"
)

// Step names.
const (
	StepValidate = "validate"
	StepSubmit   = "submit"
	StepExtract  = "extract"
	StepRecord   = "record"
	StepNavigate = "navigate"
)

// Submitter posts scan forms. *submit.Submitter implements it.
type Submitter interface {
	Submit(ctx context.Context, action string, form url.Values) (*submit.Response, error)
	SubmitPlain(ctx context.Context, action string, form url.Values) (*submit.Response, error)
}

// Recorder stores a scan result. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, rawURL, label string, confidence float64)
}

// DocumentRenderer post-processes the page shown after navigation.
type DocumentRenderer func(ctx context.Context, document string) (string, error)

// ValidateStep rejects inputs that do not look like a URL. No request is
// made for a rejected input.
type ValidateStep struct{}

// NewValidateStep creates a ValidateStep.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return StepValidate
}

// Do executes the validate step.
func (s *ValidateStep) Do(_ context.Context, sub *model.Submission) error {
	if err := submit.Validate(sub.Input); err != nil {
		sub.Navigation = model.Navigation{Kind: model.NavigationNone}
		return err
	}
	return nil
}

// SubmitStep posts the form asynchronously. A failure does not stop the
// pipeline; it selects the fallback navigation instead.
type SubmitStep struct {
	submitter Submitter
	logger    *slog.Logger
}

// NewSubmitStep creates a SubmitStep.
func NewSubmitStep(submitter Submitter, logger *slog.Logger) *SubmitStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitStep{submitter: submitter, logger: logger}
}

// Name returns the step name.
func (s *SubmitStep) Name() string {
	return StepSubmit
}

// Do executes the submit step.
func (s *SubmitStep) Do(ctx context.Context, sub *model.Submission) error {
	resp, err := s.submitter.Submit(ctx, sub.Action, sub.Form)
	if err != nil {
		s.logger.Warn("asynchronous submission failed, falling back to plain submit",
			"url", sub.Input,
			"error", err,
		)
		sub.Navigation = model.Navigation{Kind: model.NavigationFallback, Cause: err}
		return nil
	}
	sub.StatusCode = resp.StatusCode
	sub.Navigation = model.Navigation{Kind: model.NavigationReplace, Document: resp.Body}
	return nil
}

// ExtractStep reads the label and confidence from the asynchronous
// response. A page that cannot be parsed selects the fallback navigation.
type ExtractStep struct {
	extractor *scrape.Extractor
	logger    *slog.Logger
}

// NewExtractStep creates an ExtractStep. A nil extractor uses the default
// selectors.
func NewExtractStep(extractor *scrape.Extractor, logger *slog.Logger) *ExtractStep {
	if extractor == nil {
		extractor = scrape.MustNewExtractor(scrape.DefaultSelectors())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{extractor: extractor, logger: logger}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return StepExtract
}

// Do executes the extract step.
func (s *ExtractStep) Do(_ context.Context, sub *model.Submission) error {
	if sub.Navigation.Kind != model.NavigationReplace {
		return nil
	}
	res, err := s.extractor.ExtractString(sub.Navigation.Document)
	if err != nil {
		s.logger.Warn("result page could not be read, falling back to plain submit",
			"url", sub.Input,
			"error", err,
		)
		sub.Navigation = model.Navigation{Kind: model.NavigationFallback, Cause: err}
		return nil
	}
	sub.Label = res.Label
	sub.Confidence = res.Confidence
	return nil
}

// RecordStep writes the result to the scan history. Nothing is recorded
// for an empty label or when the page falls back to a plain submission.
type RecordStep struct {
	recorder Recorder
}

// NewRecordStep creates a RecordStep.
func NewRecordStep(recorder Recorder) *RecordStep {
	return &RecordStep{recorder: recorder}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return StepRecord
}

// Do executes the record step. The history store swallows its own storage
// errors, so this step never fails.
func (s *RecordStep) Do(ctx context.Context, sub *model.Submission) error {
	if s.recorder == nil || sub.Navigation.Kind != model.NavigationReplace || sub.Label == "" {
		return nil
	}
	s.recorder.Record(ctx, sub.Form.Get("url"), sub.Label, model.ClampConfidence(sub.Confidence))
	sub.Recorded = true
	return nil
}

// NavigateStep carries out the navigation selected by the earlier steps.
// The replace variant already holds its document; the fallback variant
// performs the plain submission now. Either way the resulting document is
// passed through the renderer when one is set.
type NavigateStep struct {
	submitter Submitter
	render    DocumentRenderer
}

// NewNavigateStep creates a NavigateStep. render may be nil.
func NewNavigateStep(submitter Submitter, render DocumentRenderer) *NavigateStep {
	return &NavigateStep{submitter: submitter, render: render}
}

// Name returns the step name.
func (s *NavigateStep) Name() string {
	return StepNavigate
}

// Do executes the navigate step. Only a failed fallback submission is an
// error, because then there is no page to show.
func (s *NavigateStep) Do(ctx context.Context, sub *model.Submission) error {
	switch sub.Navigation.Kind {
	case model.NavigationReplace:
	case model.NavigationFallback:
		resp, err := s.submitter.SubmitPlain(ctx, sub.Action, sub.Form)
		if err != nil {
			return fmt.Errorf("fallback submission: %w", err)
		}
		sub.StatusCode = resp.StatusCode
		sub.Navigation.Document = resp.Body
	default:
		return nil
	}

	if s.render == nil {
		return nil
	}
	doc, err := s.render(ctx, sub.Navigation.Document)
	if err != nil {
		return fmt.Errorf("render result page: %w", err)
	}
	sub.Navigation.Document = doc
	return nil
}

// Deps are the collaborators of a submission pipeline.
type Deps struct {
	Submitter Submitter
	Extractor *scrape.Extractor
	Recorder  Recorder
	Render    DocumentRenderer
	Logger    *slog.Logger
}

// NewSubmission builds the standard submission pipeline.
func NewSubmission(deps Deps, opts ...Option) *Pipeline {
	if deps.Logger != nil {
		opts = append([]Option{WithLogger(deps.Logger)}, opts...)
	}
	p := New(opts...)
	p.AddSteps(
		NewValidateStep(),
		NewSubmitStep(deps.Submitter, deps.Logger),
		NewExtractStep(deps.Extractor, deps.Logger),
		NewRecordStep(deps.Recorder),
		NewNavigateStep(deps.Submitter, deps.Render),
	)
	return p
}
