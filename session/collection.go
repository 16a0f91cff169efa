package session

import (
	"context"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/marshal"
)

// Collection fetches run long; their status notifications reach the
// handler carried by ctx, see callback.WithHandler.

func (sc Scope) CollectionThemes(ctx context.Context) ([]salience.Theme, error) {
	return fetch(sc, engine.GetCollectionThemes, func(f *marshal.Fetcher) ([]salience.Theme, error) {
		return f.CollectionThemes(ctx, sc.id)
	})
}

func (sc Scope) CollectionFacets(ctx context.Context) ([]salience.Facet, error) {
	return fetch(sc, engine.GetCollectionFacets, func(f *marshal.Fetcher) ([]salience.Facet, error) {
		return f.CollectionFacets(ctx, sc.id)
	})
}

// CollectionQueryTopics returns query topics with the identifiers of the
// documents each one matched.
func (sc Scope) CollectionQueryTopics(ctx context.Context) ([]salience.Topic, error) {
	return sc.collectionTopics(ctx, marshal.CollectionQueryTopicsSpec)
}

func (sc Scope) CollectionConceptTopics(ctx context.Context) ([]salience.Topic, error) {
	return sc.collectionTopics(ctx, marshal.CollectionConceptTopicsSpec)
}

func (sc Scope) collectionTopics(ctx context.Context, spec marshal.Spec) ([]salience.Topic, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) ([]salience.Topic, error) {
		return f.CollectionTopics(ctx, spec, sc.id)
	})
}

func (sc Scope) CollectionEntities(ctx context.Context) ([]salience.CollectionEntity, error) {
	return sc.collectionEntities(ctx, marshal.CollectionEntitiesSpec)
}

func (sc Scope) CollectionUserEntities(ctx context.Context) ([]salience.CollectionEntity, error) {
	return sc.collectionEntities(ctx, marshal.CollectionUserEntitiesSpec)
}

func (sc Scope) collectionEntities(ctx context.Context, spec marshal.Spec) ([]salience.CollectionEntity, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) ([]salience.CollectionEntity, error) {
		return f.CollectionEntities(ctx, spec, sc.id)
	})
}
