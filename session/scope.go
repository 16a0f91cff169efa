package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/marshal"
	"github.com/wippyai/salience-go/option"
)

// Scope runs options and fetches against one configuration of a session.
// The zero id addresses every configuration when setting options and the
// default configuration when fetching.
type Scope struct {
	s  *Session
	id string
}

// ID is the configuration id the scope addresses.
func (sc Scope) ID() string {
	return sc.id
}

// SetOption applies v to option id. The mirrored value changes only when
// the engine accepts it.
func (sc Scope) SetOption(ctx context.Context, id option.ID, v option.Value) error {
	if err := sc.s.live(); err != nil {
		return err
	}
	err := sc.s.exclusive(func() error {
		return sc.s.options.Set(ctx, id, v, sc.id)
	})
	if err != nil {
		return err
	}
	sc.s.log.Debug("option set",
		zap.Stringer("option", id),
		zap.String("value", v.String()),
		zap.String("scope", sc.id))
	return nil
}

// Option returns the last value the engine accepted for id in this scope.
func (sc Scope) Option(id option.ID) (option.Value, bool) {
	return sc.s.options.Get(id, sc.id)
}

// ResetClassificationModel reverts to the engine's built-in classifier.
func (sc Scope) ResetClassificationModel(ctx context.Context) error {
	return sc.SetOption(ctx, option.ClassificationModel, option.TextFlag("", 1))
}

// ReinitializeThemes makes the engine reload its theme data.
func (sc Scope) ReinitializeThemes(ctx context.Context) error {
	return sc.SetOption(ctx, option.ReinitializeThemes, option.Int(1))
}

// fetch runs one marshal call against the scope and logs its outcome.
func fetch[T any](sc Scope, name string, run func(f *marshal.Fetcher) (T, error)) (T, error) {
	if err := sc.s.live(); err != nil {
		var zero T
		return zero, err
	}
	v, err := exclusive(sc.s.native, func() (T, error) {
		return run(sc.s.fetcher)
	})
	sc.s.note(name, err)
	return v, err
}

func (sc Scope) DocumentDetails(ctx context.Context) (salience.DocumentDetails, error) {
	return fetch(sc, engine.GetDocumentDetails, func(f *marshal.Fetcher) (salience.DocumentDetails, error) {
		return f.DocumentDetails(ctx, sc.id)
	})
}

func (sc Scope) CollectionDetails(ctx context.Context) (salience.CollectionDetails, error) {
	return fetch(sc, engine.GetCollectionDetails, func(f *marshal.Fetcher) (salience.CollectionDetails, error) {
		return f.CollectionDetails(ctx, sc.id)
	})
}

// Summary returns a summary of at most length sentences.
func (sc Scope) Summary(ctx context.Context, length int) (salience.Summary, error) {
	return fetch(sc, engine.GetSummary, func(f *marshal.Fetcher) (salience.Summary, error) {
		return f.Summary(ctx, length, sc.id)
	})
}

// Sentiment returns document sentiment, optionally scored through lexical
// chains.
func (sc Scope) Sentiment(ctx context.Context, useChains bool) (salience.Sentiment, error) {
	return fetch(sc, engine.GetSentiment, func(f *marshal.Fetcher) (salience.Sentiment, error) {
		return f.Sentiment(ctx, useChains, sc.id)
	})
}

func (sc Scope) Themes(ctx context.Context) ([]salience.Theme, error) {
	return fetch(sc, engine.GetThemes, func(f *marshal.Fetcher) ([]salience.Theme, error) {
		return f.Themes(ctx, sc.id)
	})
}

// EntityParams tune named entity extraction.
type EntityParams struct {
	// Threshold is the minimum confidence an entity needs.
	Threshold int
	// SummaryLength is the number of sentences in each entity summary.
	SummaryLength int
}

// DefaultEntityParams returns the engine's defaults.
func DefaultEntityParams() EntityParams {
	return EntityParams{
		Threshold:     option.DefaultEntityThreshold,
		SummaryLength: option.DefaultEntitySummaryLength,
	}
}

// NamedEntities returns named entities using the current entity options.
func (sc Scope) NamedEntities(ctx context.Context) ([]salience.Entity, error) {
	return sc.entities(ctx, marshal.NamedEntitiesSpec)
}

// NamedEntitiesWith applies p to the scope before fetching named entities.
func (sc Scope) NamedEntitiesWith(ctx context.Context, p EntityParams) ([]salience.Entity, error) {
	if err := sc.SetOption(ctx, option.EntityThreshold, option.Int(p.Threshold)); err != nil {
		return nil, err
	}
	if err := sc.SetOption(ctx, option.EntitySummaryLength, option.Int(p.SummaryLength)); err != nil {
		return nil, err
	}
	return sc.NamedEntities(ctx)
}

func (sc Scope) UserEntities(ctx context.Context) ([]salience.Entity, error) {
	return sc.entities(ctx, marshal.UserEntitiesSpec)
}

func (sc Scope) entities(ctx context.Context, spec marshal.Spec) ([]salience.Entity, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) ([]salience.Entity, error) {
		return f.Entities(ctx, spec, sc.id)
	})
}

func (sc Scope) QueryTopics(ctx context.Context) ([]salience.Topic, error) {
	return sc.topics(ctx, marshal.QueryTopicsSpec)
}

func (sc Scope) ConceptTopics(ctx context.Context) ([]salience.Topic, error) {
	return sc.topics(ctx, marshal.ConceptTopicsSpec)
}

func (sc Scope) DocumentClasses(ctx context.Context) ([]salience.Topic, error) {
	return sc.topics(ctx, marshal.DocumentClassesSpec)
}

func (sc Scope) Categories(ctx context.Context) ([]salience.Topic, error) {
	return sc.topics(ctx, marshal.CategoriesSpec)
}

func (sc Scope) topics(ctx context.Context, spec marshal.Spec) ([]salience.Topic, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) ([]salience.Topic, error) {
		return f.Topics(ctx, spec, sc.id)
	})
}

// ExplainConceptMatches describes why each concept topic matched.
func (sc Scope) ExplainConceptMatches(ctx context.Context) (string, error) {
	return fetch(sc, engine.ExplainConceptMatches, func(f *marshal.Fetcher) (string, error) {
		return f.ExplainConceptMatches(ctx, sc.id)
	})
}

// NamedRelationships sets the entity threshold, then returns relationships
// between named entities.
func (sc Scope) NamedRelationships(ctx context.Context, threshold int) ([]salience.Relation, error) {
	if err := sc.SetOption(ctx, option.EntityThreshold, option.Int(threshold)); err != nil {
		return nil, err
	}
	return sc.relations(ctx, marshal.NamedRelationsSpec)
}

func (sc Scope) UserRelationships(ctx context.Context) ([]salience.Relation, error) {
	return sc.relations(ctx, marshal.UserRelationsSpec)
}

func (sc Scope) relations(ctx context.Context, spec marshal.Spec) ([]salience.Relation, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) ([]salience.Relation, error) {
		return f.Relations(ctx, spec, sc.id)
	})
}

// NamedOpinions sets the entity threshold, then returns opinions about
// named entities and themes.
func (sc Scope) NamedOpinions(ctx context.Context, threshold int) ([]salience.Opinion, error) {
	if err := sc.SetOption(ctx, option.EntityThreshold, option.Int(threshold)); err != nil {
		return nil, err
	}
	return sc.opinions(ctx, marshal.NamedOpinionsSpec)
}

func (sc Scope) UserOpinions(ctx context.Context) ([]salience.Opinion, error) {
	return sc.opinions(ctx, marshal.UserOpinionsSpec)
}

func (sc Scope) opinions(ctx context.Context, spec marshal.Spec) ([]salience.Opinion, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) ([]salience.Opinion, error) {
		return f.Opinions(ctx, spec, sc.id)
	})
}

func (sc Scope) Intentions(ctx context.Context) ([]salience.Intention, error) {
	return fetch(sc, engine.GetIntentions, func(f *marshal.Fetcher) ([]salience.Intention, error) {
		return f.Intentions(ctx, sc.id)
	})
}

// NamedOpinionTaggedText returns the document text with opinions about
// named entities tagged inline.
func (sc Scope) NamedOpinionTaggedText(ctx context.Context) (string, error) {
	return sc.text(ctx, engine.GetNamedOpinionTaggedText)
}

func (sc Scope) UserOpinionTaggedText(ctx context.Context) (string, error) {
	return sc.text(ctx, engine.GetUserOpinionTaggedText)
}

func (sc Scope) text(ctx context.Context, name string) (string, error) {
	return fetch(sc, name, func(f *marshal.Fetcher) (string, error) {
		return f.String(ctx, name, sc.id)
	})
}
