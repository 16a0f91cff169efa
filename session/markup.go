package session

import (
	"context"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/markup"
	"github.com/wippyai/salience-go/marshal"
)

// The markup fetches release the engine's document before rendering; the
// markup is built from the owned copy.

// NamedEntityMarkup renders the document with named entity spans.
func (sc Scope) NamedEntityMarkup(ctx context.Context) (string, error) {
	doc, err := sc.markupDocument(ctx, marshal.NamedEntityMarkupSpec)
	if err != nil {
		return "", err
	}
	return markup.Entity(doc), nil
}

// UserEntityMarkup renders the document with user-defined entity spans.
func (sc Scope) UserEntityMarkup(ctx context.Context) (string, error) {
	doc, err := sc.markupDocument(ctx, marshal.UserEntityMarkupSpec)
	if err != nil {
		return "", err
	}
	return markup.Entity(doc), nil
}

// POSMarkup renders every token wrapped in its part-of-speech tag.
func (sc Scope) POSMarkup(ctx context.Context) (string, error) {
	doc, err := sc.markupDocument(ctx, marshal.POSMarkupSpec)
	if err != nil {
		return "", err
	}
	return markup.POS(doc), nil
}

// SentimentMarkup renders sentiment spans and polar sentences.
func (sc Scope) SentimentMarkup(ctx context.Context, opts markup.SentimentOptions) (string, error) {
	doc, err := sc.markupDocument(ctx, marshal.SentimentMarkupSpec)
	if err != nil {
		return "", err
	}
	return markup.Sentiment(doc, opts), nil
}

// MarkupDocument returns the tagged document behind one of the markup
// renderings, for callers that render it themselves.
func (sc Scope) MarkupDocument(ctx context.Context, spec marshal.Spec) (salience.Document, error) {
	return sc.markupDocument(ctx, spec)
}

func (sc Scope) markupDocument(ctx context.Context, spec marshal.Spec) (salience.Document, error) {
	return fetch(sc, spec.Fetch, func(f *marshal.Fetcher) (salience.Document, error) {
		return f.MarkupDocument(ctx, spec, sc.id)
	})
}
