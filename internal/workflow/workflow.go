// Package workflow orchestrates one scrape cycle: acquisition, extraction,
// report building, persistence, and delivery.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/interfaces"
	"github.com/manamurah/flotilla-watch/internal/models"
	"github.com/manamurah/flotilla-watch/internal/report"
	"github.com/manamurah/flotilla-watch/internal/scrape"
)

// Acquirer supplies raw entity text blocks from the tracking page.
type Acquirer interface {
	Acquire(ctx context.Context) ([]scrape.Entity, error)
}

// Deliverer sends a finished report to its recipient.
type Deliverer interface {
	Send(ctx context.Context, env *models.ReportEnvelope) (*models.DeliveryResult, error)
}

// CycleResult summarizes one completed cycle.
type CycleResult struct {
	Vessels  int
	Duration time.Duration
	Delivery *models.DeliveryResult
	Envelope *models.ReportEnvelope
}

// Workflow wires the pipeline stages together. Each cycle runs sequentially;
// the scheduler never overlaps two cycles.
type Workflow struct {
	acquirer Acquirer
	builder  *report.Builder
	store    interfaces.ReportStorage
	deliver  Deliverer
	classify scrape.IncidentClassifier
	logger   *common.Logger

	acquireRetry common.RetryPolicy
	deliverRetry common.RetryPolicy
}

// New creates a workflow with the default incident classifier.
func New(acquirer Acquirer, builder *report.Builder, store interfaces.ReportStorage, deliver Deliverer, acquireRetry, deliverRetry common.RetryPolicy, logger *common.Logger) *Workflow {
	return &Workflow{
		acquirer:     acquirer,
		builder:      builder,
		store:        store,
		deliver:      deliver,
		classify:     scrape.DefaultIncidentClassifier,
		logger:       logger,
		acquireRetry: acquireRetry,
		deliverRetry: deliverRetry,
	}
}

// SetIncidentClassifier swaps the incident filter policy.
func (w *Workflow) SetIncidentClassifier(c scrape.IncidentClassifier) {
	w.classify = c
}

// Run executes one full cycle. Acquisition and delivery run under their
// retry policies; a history-append failure is logged but does not fail the
// cycle. Everything else surfaces as a cycle-level error for the scheduler.
func (w *Workflow) Run(ctx context.Context) (*CycleResult, error) {
	start := time.Now()
	logger := w.logger.WithCorrelationId(uuid.NewString())
	logger.Info().Msg("starting workflow cycle")

	entities, err := common.Retry(ctx, w.acquireRetry, w.acquirer.Acquire)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("acquisition failed")
		return nil, err
	}
	logger.Info().Int("entities", len(entities)).Msg("acquisition complete")

	records := scrape.ExtractAll(entities, w.classify, logger)
	env := w.builder.Build(records, time.Now().UTC())

	if err := w.store.SaveLatest(ctx, env); err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to save latest report")
		return nil, err
	}
	if err := w.store.AppendHistory(ctx, models.HistoryEntryOf(env)); err != nil {
		// History is best-effort; the report is already persisted and the
		// email should still go out.
		logger.Error().Str("error", err.Error()).Msg("failed to append history")
	}

	delivery, err := common.Retry(ctx, w.deliverRetry, func(ctx context.Context) (*models.DeliveryResult, error) {
		return w.deliver.Send(ctx, env)
	})
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("delivery failed")
		return nil, err
	}

	result := &CycleResult{
		Vessels:  env.TotalVessels,
		Duration: time.Since(start),
		Delivery: delivery,
		Envelope: env,
	}

	logger.Info().
		Int("vessels", result.Vessels).
		Str("recipient", delivery.Recipient).
		Str("message_id", delivery.MessageID).
		Str("duration", result.Duration.Round(time.Millisecond).String()).
		Msg("workflow cycle complete")

	return result, nil
}
