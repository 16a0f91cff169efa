package marshal

import (
	"context"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
)

// Fetch specs for every result kind the engine returns.
var (
	DocumentDetailsSpec   = Spec{engine.GetDocumentDetails, engine.FreeDocumentDetails, layout.DocumentDetails}
	CollectionDetailsSpec = Spec{engine.GetCollectionDetails, "", layout.CollectionDetails}
	SummarySpec           = Spec{engine.GetSummary, engine.FreeSummaryResult, layout.SummaryResult}
	SentimentSpec         = Spec{engine.GetSentiment, engine.FreeSentimentResult, layout.SentimentResult}
	ThemesSpec            = Spec{engine.GetThemes, engine.FreeThemeList, layout.ThemeList}
	NamedEntitiesSpec     = Spec{engine.GetNamedEntities, engine.FreeEntityList, layout.EntityList}
	UserEntitiesSpec      = Spec{engine.GetUserDefinedEntities, engine.FreeEntityList, layout.EntityList}
	QueryTopicsSpec       = Spec{engine.GetQueryDefinedTopics, engine.FreeTopicList, layout.TopicList}
	ConceptTopicsSpec     = Spec{engine.GetConceptDefinedTopics, engine.FreeTopicList, layout.TopicList}
	DocumentClassesSpec   = Spec{engine.GetDocumentClasses, engine.FreeTopicList, layout.TopicList}
	CategoriesSpec        = Spec{engine.GetDocumentCategories, engine.FreeTopicList, layout.TopicList}
	NamedRelationsSpec    = Spec{engine.GetNamedEntityRelationships, engine.FreeRelationList, layout.RelationList}
	UserRelationsSpec     = Spec{engine.GetUserEntityRelationships, engine.FreeRelationList, layout.RelationList}
	NamedOpinionsSpec     = Spec{engine.GetNamedEntityOpinions, engine.FreeOpinionList, layout.OpinionList}
	UserOpinionsSpec      = Spec{engine.GetUserEntityOpinions, engine.FreeOpinionList, layout.OpinionList}
	IntentionsSpec        = Spec{engine.GetIntentions, engine.FreeIntentionList, layout.IntentionList}

	CollectionThemesSpec        = Spec{engine.GetCollectionThemes, engine.FreeThemeList, layout.ThemeList}
	CollectionFacetsSpec        = Spec{engine.GetCollectionFacets, engine.FreeFacetList, layout.FacetList}
	CollectionQueryTopicsSpec   = Spec{engine.GetCollectionQueryTopics, engine.FreeTopicList, layout.TopicList}
	CollectionConceptTopicsSpec = Spec{engine.GetCollectionConceptTopics, engine.FreeTopicList, layout.TopicList}
	CollectionEntitiesSpec      = Spec{engine.GetCollectionEntities, engine.FreeCollectionEntityList, layout.CollectionEntityList}
	CollectionUserEntitiesSpec  = Spec{engine.GetCollectionUserEntities, engine.FreeCollectionEntityList, layout.CollectionEntityList}

	NamedEntityMarkupSpec = Spec{engine.GetNamedEntityMarkup, engine.FreeDocument, layout.Document}
	UserEntityMarkupSpec  = Spec{engine.GetUserEntityMarkup, engine.FreeDocument, layout.Document}
	POSMarkupSpec         = Spec{engine.GetPOSMarkup, engine.FreeDocument, layout.Document}
	SentimentMarkupSpec   = Spec{engine.GetSentimentMarkup, engine.FreeDocument, layout.Document}
)

func (f *Fetcher) DocumentDetails(ctx context.Context, scope string) (salience.DocumentDetails, error) {
	return Fetch(ctx, f, DocumentDetailsSpec, scope, nil, (*Reader).DocumentDetails)
}

func (f *Fetcher) CollectionDetails(ctx context.Context, scope string) (salience.CollectionDetails, error) {
	return Fetch(ctx, f, CollectionDetailsSpec, scope, nil, (*Reader).CollectionDetails)
}

// Summary asks for a summary of length sentences.
func (f *Fetcher) Summary(ctx context.Context, length int, scope string) (salience.Summary, error) {
	return Fetch(ctx, f, SummarySpec, scope, []uint32{uint32(int32(length))}, (*Reader).Summary)
}

// Sentiment fetches document sentiment, optionally resolved through
// lexical chains.
func (f *Fetcher) Sentiment(ctx context.Context, useChains bool, scope string) (salience.Sentiment, error) {
	return Fetch(ctx, f, SentimentSpec, scope, []uint32{flag(useChains)}, (*Reader).Sentiment)
}

func (f *Fetcher) Themes(ctx context.Context, scope string) ([]salience.Theme, error) {
	return Fetch(ctx, f, ThemesSpec, scope, nil, (*Reader).ThemeList)
}

func (f *Fetcher) Entities(ctx context.Context, spec Spec, scope string) ([]salience.Entity, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).EntityList)
}

// Topics fetches any document-level topic list: query or concept defined
// topics, classes or categories.
func (f *Fetcher) Topics(ctx context.Context, spec Spec, scope string) ([]salience.Topic, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).TopicList)
}

func (f *Fetcher) Relations(ctx context.Context, spec Spec, scope string) ([]salience.Relation, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).RelationList)
}

func (f *Fetcher) Opinions(ctx context.Context, spec Spec, scope string) ([]salience.Opinion, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).OpinionList)
}

func (f *Fetcher) Intentions(ctx context.Context, scope string) ([]salience.Intention, error) {
	return Fetch(ctx, f, IntentionsSpec, scope, nil, (*Reader).IntentionList)
}

func (f *Fetcher) CollectionThemes(ctx context.Context, scope string) ([]salience.Theme, error) {
	return Fetch(ctx, f, CollectionThemesSpec, scope, nil, (*Reader).ThemeList)
}

func (f *Fetcher) CollectionFacets(ctx context.Context, scope string) ([]salience.Facet, error) {
	return Fetch(ctx, f, CollectionFacetsSpec, scope, nil, (*Reader).FacetList)
}

// CollectionTopics fetches query or concept topics across a collection.
func (f *Fetcher) CollectionTopics(ctx context.Context, spec Spec, scope string) ([]salience.Topic, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).CollectionTopicList)
}

func (f *Fetcher) CollectionEntities(ctx context.Context, spec Spec, scope string) ([]salience.CollectionEntity, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).CollectionEntityList)
}

// MarkupDocument fetches the token stream one of the markup entry points
// produces.
func (f *Fetcher) MarkupDocument(ctx context.Context, spec Spec, scope string) (salience.Document, error) {
	return Fetch(ctx, f, spec, scope, nil, (*Reader).Document)
}

// ExplainConceptMatches returns the engine's explanation of concept topic
// hits. A null explanation is an error.
func (f *Fetcher) ExplainConceptMatches(ctx context.Context, scope string) (string, error) {
	s, err := f.String(ctx, engine.ExplainConceptMatches, scope)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindNilPointer {
			return "", errors.New(errors.PhaseFetch, errors.KindEngine).
				Detail("%s returned no explanation", engine.ExplainConceptMatches).
				EngineMessage(ErrorString(ctx, f.Native, f.Codec, f.Session)).
				Build()
		}
		return "", err
	}
	return s, nil
}

func flag(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
