package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/rfp-quotation/internal/model"
)

type Extractor interface {
	Extract(text string) model.ExtractedData
}

type Matcher interface {
	Match(description, specText string) []model.MatchCandidate
}

type Pricer interface {
	Price(company model.CompanyInfo, items []model.MatchedItem) (*model.Quotation, error)
}

// Pipeline runs extract -> match (per item, in parallel) -> price over one
// document.
type Pipeline struct {
	extractor Extractor
	matcher   Matcher
	pricer    Pricer
	log       zerolog.Logger
}

func NewPipeline(extractor Extractor, matcher Matcher, pricer Pricer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		matcher:   matcher,
		pricer:    pricer,
		log:       log,
	}
}

// Run never returns partial output: either the result carries a quotation
// and status success, or only status error and a message.
func (p *Pipeline) Run(ctx context.Context, text string) (result model.RunResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("pipeline panicked")
			result = failed(fmt.Errorf("%w: %v", ErrRunFailed, r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	extracted := p.extractor.Extract(text)

	matched, unmatched, err := p.matchItems(ctx, extracted.Items)
	if err != nil {
		p.log.Warn().Err(err).Msg("matching aborted")
		return failed(err)
	}

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	quotation, err := p.pricer.Price(extracted.CompanyInfo, matched)
	if err != nil {
		p.log.Error().Err(err).Msg("pricing failed")
		return failed(err)
	}

	p.log.Info().
		Str("quotation_id", quotation.QuotationID).
		Int("items", len(extracted.Items)).
		Int("matched", len(matched)).
		Int("unmatched", len(unmatched)).
		Str("final_amount", quotation.PricingSummary.FinalAmount.StringFixed(2)).
		Msg("quotation generated")

	return model.RunResult{
		Status:         model.RunStatusSuccess,
		ExtractedData:  &extracted,
		Quotation:      quotation,
		UnmatchedItems: unmatched,
	}
}

// matchItems matches every item concurrently and keeps the input order.
// Items without a qualifying candidate are returned as unmatched.
func (p *Pipeline) matchItems(ctx context.Context, items []model.RequestedItem) ([]model.MatchedItem, []model.RequestedItem, error) {
	top := make([]*model.MatchCandidate, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: matching %q: %v", ErrRunFailed, item.ItemName, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates := p.matcher.Match(item.ItemName, item.Specifications)
			p.log.Debug().
				Str("item", item.ItemName).
				Int("candidates", len(candidates)).
				Msg("item matched")
			if len(candidates) > 0 {
				best := candidates[0]
				top[i] = &best
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var matched []model.MatchedItem
	var unmatched []model.RequestedItem
	for i, item := range items {
		best := top[i]
		if best == nil {
			unmatched = append(unmatched, item)
			continue
		}
		product := best.Product
		matched = append(matched, model.MatchedItem{
			RequestedItem:  item,
			MatchedProduct: &product,
			MatchScore:     best.MatchScore,
			Reasoning:      best.Reasoning,
		})
	}
	return matched, unmatched, nil
}

func failed(err error) model.RunResult {
	return model.RunResult{
		Status:  model.RunStatusError,
		Message: err.Error(),
	}
}
