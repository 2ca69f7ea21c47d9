package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/logger"
)

type ProcessingBackend interface {
	Process(ctx context.Context, pipeline domain.Pipeline, req domain.ProcessingRequest) (*domain.ProcessingResult, error)
}

// SelectionSource is read at the moment a pipeline is invoked.
type SelectionSource interface {
	Selection() []domain.SelectedBlob
	SelectedDates() domain.PeriodDates
}

type processingInvoker struct {
	backend   ProcessingBackend
	source    SelectionSource
	notifier  Notifier
	pipelines []domain.Pipeline
}

func NewProcessingInvoker(
	backend ProcessingBackend,
	source SelectionSource,
	notifier Notifier,
	pipelines []domain.Pipeline,
) *processingInvoker {
	if len(pipelines) == 0 {
		pipelines = domain.DefaultPipelines
	}
	return &processingInvoker{
		backend:   backend,
		source:    source,
		notifier:  notifier,
		pipelines: pipelines,
	}
}

func (p *processingInvoker) Pipelines() []domain.Pipeline {
	return append([]domain.Pipeline(nil), p.pipelines...)
}

// Pipeline resolves a pipeline by name or endpoint path.
func (p *processingInvoker) Pipeline(name string) (domain.Pipeline, error) {
	pl, ok := lo.Find(p.pipelines, func(pl domain.Pipeline) bool {
		return pl.Name == name || pl.Path == name
	})
	if !ok {
		return domain.Pipeline{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownPipeline)
	}
	return pl, nil
}

// Invoke validates the current selection against the pipeline's container and
// posts it with the period dates. There is no retry.
func (p *processingInvoker) Invoke(ctx context.Context, name string) (*domain.ProcessingResult, error) {
	pipeline, err := p.Pipeline(name)
	if err != nil {
		return nil, err
	}

	selection := p.source.Selection()
	required := pipeline.RequiredContainer
	inRequired := func(b domain.SelectedBlob) bool { return b.Container == required }

	if !lo.ContainsBy(selection, inRequired) {
		return nil, reject(ctx, p.notifier, fmt.Sprintf("Please select a file in the %s container for this function to process", required))
	}
	if !lo.EveryBy(selection, inRequired) {
		return nil, reject(ctx, p.notifier, fmt.Sprintf("Please select only files in the %s container for this function to process", required))
	}

	req := domain.ProcessingRequest{
		Blobs:         selection,
		SelectedDates: p.source.SelectedDates(),
	}

	slog.InfoContext(ctx, "invoking pipeline", "pipeline", pipeline.Name, "blobs", len(req.Blobs), "end_date_current", req.SelectedDates.EndDateCurrent)

	res, err := p.backend.Process(ctx, pipeline, req)
	if err != nil {
		slog.ErrorContext(ctx, "pipeline failed", "pipeline", pipeline.Name, logger.Err(err))
		p.notifier.Notify(ctx, domain.ErrorNotice(processingFailureMessage(err)))
		return nil, err
	}

	if res.Partial() {
		slog.WarnContext(ctx, "pipeline completed with errors", "pipeline", pipeline.Name, "errors", len(res.Errors))
		p.notifier.Notify(ctx, domain.ErrorNotice(processingPartialMessage(res)))
		return res, nil
	}

	p.notifier.Notify(ctx, domain.InfoNotice(processingSuccessMessage(res)))
	return res, nil
}

func processingFailureMessage(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr) && len(apiErr.Errors) > 0:
		return "Processing failed:\n" + strings.Join(apiErr.Errors, "\n")
	case errors.As(err, &apiErr) && apiErr.Reason() != "":
		return "Processing failed: " + apiErr.Reason()
	case errors.As(err, &apiErr):
		return "Processing failed: " + unknownErrorReason
	case errors.Is(err, domain.ErrUnexpectedResponse):
		return "Error: " + domain.ErrUnexpectedResponse.Error()
	default:
		return "Error: " + err.Error()
	}
}

func processingSuccessMessage(res *domain.ProcessingResult) string {
	msg := "Processing completed successfully."
	if len(res.ProcessedFiles) > 0 {
		msg = "Processing completed successfully: " + strings.Join(res.ProcessedFiles, ", ")
	}
	return msg + outputFileSuffix(res)
}

func processingPartialMessage(res *domain.ProcessingResult) string {
	msg := "Processing completed with errors"
	if len(res.ProcessedFiles) > 0 {
		msg += ": " + strings.Join(res.ProcessedFiles, ", ")
	}
	if len(res.Errors) > 0 {
		msg += "\n" + strings.Join(res.Errors, "\n")
	}
	return msg + outputFileSuffix(res)
}

func outputFileSuffix(res *domain.ProcessingResult) string {
	if res.OutputFile == "" {
		return ""
	}
	return "\nOutput: " + res.OutputFile
}
