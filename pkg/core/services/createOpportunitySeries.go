package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// DefaultMaxOccurrences bounds a series when no limit is configured
const DefaultMaxOccurrences = 52

// CreateOpportunitySeries expands an RFC 5545 recurrence rule into draft
// opportunities sharing a series id. The template's start and end give the
// first occurrence and the duration of every occurrence. The rule must be
// bounded by COUNT or UNTIL and may not yield more than maxOccurrences.
func CreateOpportunitySeries(
	ctx context.Context,
	database db.Transactor,
	logger *zap.Logger,
	actorID string,
	orgID string,
	template OpportunityInput,
	rule string,
	maxOccurrences int,
) ([]model.Opportunity, error) {
	if err := validateInput(template); err != nil {
		return nil, err
	}
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}

	starts, err := expandRule(rule, template, maxOccurrences)
	if err != nil {
		return nil, err
	}

	logger.Info("Creating opportunity series",
		zap.String("org_id", orgID),
		zap.String("rrule", rule),
		zap.Int("occurrences", len(starts)))

	seriesID := uuid.New().String()
	duration := template.EndDate.Sub(template.StartDate)

	opps := make([]model.Opportunity, 0, len(starts))
	err = database.WithTx(ctx, func(tx db.Store) error {
		if err := requireApprovedOrganization(ctx, tx, orgID); err != nil {
			return err
		}

		for _, start := range starts {
			input := template
			input.StartDate = start
			input.EndDate = start.Add(duration)

			opp := newOpportunity(orgID, input)
			opp.SeriesID = seriesID
			if err := tx.InsertOpportunity(ctx, opp); err != nil {
				return err
			}
			opps = append(opps, *opp)
		}

		return recordActivity(ctx, tx, actorID, model.ActionCreateSeries,
			fmt.Sprintf("Series %s of %d opportunities (%s) created by Org ID %s", seriesID, len(opps), template.Title, orgID))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opportunity series: %w", err)
	}

	logger.Info("Created opportunity series",
		zap.String("series_id", seriesID),
		zap.Int("count", len(opps)))
	return opps, nil
}

func expandRule(rule string, template OpportunityInput, maxOccurrences int) ([]time.Time, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rrule: %v", model.ErrValidation, err)
	}
	if opt.Count == 0 && opt.Until.IsZero() {
		return nil, fmt.Errorf("%w: rrule must be bounded by COUNT or UNTIL", model.ErrValidation)
	}
	opt.Dtstart = template.StartDate.UTC()

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rrule: %v", model.ErrValidation, err)
	}

	var starts []time.Time
	next := r.Iterator()
	for {
		start, ok := next()
		if !ok {
			break
		}
		if len(starts) == maxOccurrences {
			return nil, fmt.Errorf("%w: rrule yields more than %d occurrences", model.ErrValidation, maxOccurrences)
		}
		starts = append(starts, start)
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("%w: rrule yields no occurrences", model.ErrValidation)
	}
	return starts, nil
}
