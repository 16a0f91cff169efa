package marshal_test

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/engine/enginetest"
	"github.com/wippyai/salience-go/errors"
	"github.com/wippyai/salience-go/internal/layout"
	"github.com/wippyai/salience-go/marshal"
	"github.com/wippyai/salience-go/resource"
)

func newFetcher(e *enginetest.Engine) *marshal.Fetcher {
	return &marshal.Fetcher{
		Native:  e,
		Codec:   codec.New(codec.UTF8),
		Session: enginetest.SessionHandle,
	}
}

// assertReleased checks that exactly one result was fetched, that it was
// released once and that no engine or host memory is left behind.
func assertReleased(t *testing.T, e *enginetest.Engine) {
	t.Helper()
	roots := e.Roots()
	if len(roots) != 1 {
		t.Fatalf("released descriptors = %d, want 1", len(roots))
	}
	if n := e.Frees(roots[0]); n != 1 {
		t.Errorf("descriptor released %d times, want 1", n)
	}
	if n := e.Outstanding(); n != 0 {
		t.Errorf("outstanding engine allocations = %d", n)
	}
	if n := e.Arena().Live(); n != 0 {
		t.Errorf("live arena blocks = %d", n)
	}
	if n := e.Arena().BadFrees(); n != 0 {
		t.Errorf("bad frees = %d", n)
	}
}

func phrase(text string, word int) salience.Phrase {
	return salience.Phrase{Text: text, Document: 1, Sentence: 2, Word: word, Length: len(text), Byte: word * 5, ByteLength: len(text)}
}

func TestFetch_Themes(t *testing.T) {
	negated := phrase("not great", 3)
	negated.Negated = true
	negated.Negator = "not"

	want := []salience.Theme{
		{
			Theme:      "Quarterly Results",
			Stemmed:    "quarterly result",
			Normalized: "quarterly results",
			Type:       1,
			Score:      1.5,
			Sentiment:  -0.25,
			Evidence:   4,
			About:      true,
			Summary:    "Results were not great.",
			Mentions:   []salience.Phrase{phrase("quarterly results", 0), negated},
			Topics: []salience.Topic{{
				Topic: "Finance",
				Hits:  2,
				Score: 0.75,
				Type:  1,
				Children: []salience.Topic{
					{Topic: "Earnings", Hits: 1, Score: 0.5},
				},
			}},
			AlternateThemes: []salience.AlternateTheme{{Theme: "results", Score: 0.4}},
			ChildMentions:   []salience.Phrase{phrase("results", 1)},
		},
		{Theme: "Outlook", Score: 0.3},
	}

	e := enginetest.New()
	enginetest.InstallSession(e)
	e.Result(engine.GetThemes, func(tr *enginetest.Tree, desc uint32) {
		tr.ThemeList(desc, want)
	})

	got, err := newFetcher(e).Themes(context.Background(), "")
	if err != nil {
		t.Fatalf("Themes: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Themes mismatch\n got: %+v\nwant: %+v", got, want)
	}
	assertReleased(t, e)
}

func TestFetch_Entities(t *testing.T) {
	tests := []struct {
		name     string
		mentions []salience.Mention
		count    int
		firstPos int
	}{
		{
			name: "with mentions",
			mentions: []salience.Mention{
				{Phrase: phrase("Paris", 7), Type: 1, Score: 0.9},
				{Phrase: phrase("the city", 12), Type: 2, Score: 0.4},
			},
			count:    2,
			firstPos: 7,
		},
		{
			name:     "without mentions",
			count:    0,
			firstPos: salience.NoPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := salience.Entity{
				NormalizedForm: "Paris",
				Type:           "Place",
				Label:          "LOCATION",
				SentimentScore: 0.2,
				Evidence:       3,
				Confident:      1,
				Summary:        "Paris is nice.",
				Mentions:       tt.mentions,
				Themes:         []salience.Theme{{Theme: "city", Score: 1}},
				SentimentPhrases: []salience.SentimentPhrase{{
					Phrase:            phrase("nice", 9),
					Source:            "general",
					Score:             0.6,
					Type:              1,
					SupportingPhrases: []salience.Phrase{phrase("very", 8)},
				}},
			}

			e := enginetest.New()
			e.Result(engine.GetNamedEntities, func(tr *enginetest.Tree, desc uint32) {
				tr.EntityList(desc, []salience.Entity{entity})
			})

			got, err := newFetcher(e).Entities(context.Background(), marshal.NamedEntitiesSpec, "")
			if err != nil {
				t.Fatalf("Entities: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d entities, want 1", len(got))
			}
			if got[0].Count != tt.count {
				t.Errorf("Count = %d, want %d", got[0].Count, tt.count)
			}
			if got[0].FirstPos != tt.firstPos {
				t.Errorf("FirstPos = %d, want %d", got[0].FirstPos, tt.firstPos)
			}

			entity.Count, entity.FirstPos = tt.count, tt.firstPos
			if !reflect.DeepEqual(got[0], entity) {
				t.Errorf("entity mismatch\n got: %+v\nwant: %+v", got[0], entity)
			}
			assertReleased(t, e)
		})
	}
}

func TestFetch_FailingStatus(t *testing.T) {
	tests := []struct {
		name   string
		status salience.Status
		kind   errors.Kind
	}{
		{"invalid parameter", salience.StatusInvalidParameter, errors.KindInvalidParameter},
		{"unsupported", salience.StatusUnsupportedOption, errors.KindUnsupportedOption},
		{"generic", 99, errors.KindEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enginetest.New()
			st := enginetest.InstallSession(e)
			st.ErrorMessage = "no text prepared"
			e.Fail(engine.GetThemes, tt.status)

			_, err := newFetcher(e).Themes(context.Background(), "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFetch, Kind: tt.kind}) {
				t.Errorf("error kind mismatch: %v", err)
			}
			var e2 *errors.Error
			if !stderrors.As(err, &e2) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e2.EngineMessage != "no text prepared" {
				t.Errorf("EngineMessage = %q", e2.EngineMessage)
			}
			if e2.Status != int32(tt.status) {
				t.Errorf("Status = %d, want %d", e2.Status, tt.status)
			}
			if n := e.TotalFrees(); n != 0 {
				t.Errorf("release calls after failure = %d, want 0", n)
			}
			if n := e.Arena().Live(); n != 0 {
				t.Errorf("live arena blocks = %d", n)
			}
		})
	}
}

func TestFetch_SoftSuccess(t *testing.T) {
	e := enginetest.New()
	e.ResultStatus(engine.GetThemes, salience.StatusSoftSuccess, func(tr *enginetest.Tree, desc uint32) {
		tr.ThemeList(desc, []salience.Theme{{Theme: "partial"}})
	})

	f := newFetcher(e)
	got, err := f.Themes(context.Background(), "")
	if err != nil {
		t.Fatalf("soft success returned error: %v", err)
	}
	if len(got) != 1 || got[0].Theme != "partial" {
		t.Errorf("got %+v", got)
	}
	if !f.LastStatus().Partial() {
		t.Errorf("LastStatus = %v, want partial", f.LastStatus())
	}
	assertReleased(t, e)
}

func TestFetch_DecodeErrorStillReleases(t *testing.T) {
	e := enginetest.New()
	e.Result(engine.GetThemes, func(tr *enginetest.Tree, desc uint32) {
		tr.ThemeList(desc, []salience.Theme{{Theme: "a"}})
		// Claim far more items than memory holds.
		tr.I32(desc, layout.ThemeList, layout.ListLength, 1<<24)
	})

	_, err := newFetcher(e).Themes(context.Background(), "")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}) {
		t.Fatalf("expected decode invalid_data error, got %v", err)
	}
	assertReleased(t, e)
}

func TestFetch_ScopeAndArgs(t *testing.T) {
	e := enginetest.New()
	var gotArgs []uint32
	var gotScope string
	e.Handle(engine.GetSentiment, func(_ context.Context, e *enginetest.Engine, args []uint32) salience.Status {
		gotArgs = append([]uint32(nil), args...)
		gotScope = e.ReadString(args[3])
		tr := e.NewTree()
		tr.Sentiment(args[2], salience.Sentiment{Score: 0.5})
		e.Own(args[2], tr)
		return salience.StatusOK
	})

	got, err := newFetcher(e).Sentiment(context.Background(), true, "reviews")
	if err != nil {
		t.Fatalf("Sentiment: %v", err)
	}
	if got.Score != 0.5 {
		t.Errorf("Score = %v", got.Score)
	}
	if len(gotArgs) != 4 {
		t.Fatalf("args = %v, want 4", gotArgs)
	}
	if gotArgs[0] != enginetest.SessionHandle {
		t.Errorf("session arg = %#x", gotArgs[0])
	}
	if gotArgs[1] != 1 {
		t.Errorf("use chains arg = %d, want 1", gotArgs[1])
	}
	if gotScope != "reviews" {
		t.Errorf("scope = %q", gotScope)
	}
	assertReleased(t, e)
}

func TestFetch_Sentiment(t *testing.T) {
	want := salience.Sentiment{
		Score: -0.4,
		Phrases: []salience.SentimentPhrase{
			{Phrase: phrase("terrible", 4), Source: "general", Score: -0.8, Type: 1},
		},
		Models: []salience.ModelSentiment{
			{Name: "default", Best: 2, Positive: 0.1, Negative: 0.7, Mixed: 0.1, Neutral: 0.1},
		},
		Emotions: []salience.Topic{{Topic: "anger", Hits: 1, Score: 0.8, Sentiment: -0.8, Summary: "terrible"}},
	}

	e := enginetest.New()
	e.Result(engine.GetSentiment, func(tr *enginetest.Tree, desc uint32) {
		tr.Sentiment(desc, want)
	})

	got, err := newFetcher(e).Sentiment(context.Background(), false, "")
	if err != nil {
		t.Fatalf("Sentiment: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sentiment mismatch\n got: %+v\nwant: %+v", got, want)
	}
	assertReleased(t, e)
}

func TestFetch_Opinions(t *testing.T) {
	speaker := salience.Entity{
		NormalizedForm: "Jane Doe",
		Label:          "PERSON",
		Mentions:       []salience.Mention{{Phrase: phrase("Jane", 0)}},
		Count:          1,
		FirstPos:       0,
	}
	target := salience.Entity{NormalizedForm: "Acme", Label: "COMPANY", FirstPos: salience.NoPosition}
	theme := salience.Theme{Theme: "pricing", Score: 0.7}

	want := []salience.Opinion{
		{Speaker: speaker, EntityTopic: &target, Quotation: "Acme is great", Sentiment: 0.6},
		{Speaker: speaker, ThemeTopic: &theme, Quotation: "pricing is steep", Sentiment: -0.3},
	}

	e := enginetest.New()
	e.Result(engine.GetNamedEntityOpinions, func(tr *enginetest.Tree, desc uint32) {
		tr.OpinionList(desc, want)
	})

	got, err := newFetcher(e).Opinions(context.Background(), marshal.NamedOpinionsSpec, "")
	if err != nil {
		t.Fatalf("Opinions: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Opinions mismatch\n got: %+v\nwant: %+v", got, want)
	}
	for i, o := range got {
		if (o.EntityTopic == nil) == (o.ThemeTopic == nil) {
			t.Errorf("opinion %d: exactly one topic must be set", i)
		}
	}
	assertReleased(t, e)
}

func TestFetch_CollectionTopics(t *testing.T) {
	want := []salience.Topic{
		{Topic: "Billing", Hits: 3, Score: 0.9, Sentiment: -0.1, Documents: []string{"0", "2", "5"}},
		{Topic: "Support", Hits: 0},
	}

	e := enginetest.New()
	e.Result(engine.GetCollectionQueryTopics, func(tr *enginetest.Tree, desc uint32) {
		tr.CollectionTopicList(desc, want)
	})

	got, err := newFetcher(e).CollectionTopics(context.Background(), marshal.CollectionQueryTopicsSpec, "")
	if err != nil {
		t.Fatalf("CollectionTopics: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectionTopics mismatch\n got: %+v\nwant: %+v", got, want)
	}
	assertReleased(t, e)
}

func TestFetch_Summary(t *testing.T) {
	tests := []struct {
		name string
		want salience.Summary
	}{
		{
			name: "with documents",
			want: salience.Summary{
				Summary:            "Short.",
				Sentences:          []salience.Sentence{{Text: "Short.", Tokens: []salience.Token{{Text: "Short", ID: -1, SecondaryID: -1}}}},
				AlternateSummary:   "Alt.",
				AlternateSentences: []salience.Sentence{{Text: "Alt."}},
			},
		},
		{
			name: "null documents",
			want: salience.Summary{Summary: "Only text."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enginetest.New()
			var length uint32
			e.Handle(engine.GetSummary, func(_ context.Context, e *enginetest.Engine, args []uint32) salience.Status {
				length = args[1]
				tr := e.NewTree()
				tr.Summary(args[2], tt.want)
				e.Own(args[2], tr)
				return salience.StatusOK
			})

			got, err := newFetcher(e).Summary(context.Background(), 3, "")
			if err != nil {
				t.Fatalf("Summary: %v", err)
			}
			if length != 3 {
				t.Errorf("length arg = %d, want 3", length)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Summary mismatch\n got: %+v\nwant: %+v", got, tt.want)
			}
			assertReleased(t, e)
		})
	}
}

func TestFetch_DocumentDetails(t *testing.T) {
	chunkA := salience.Chunk{Label: "NP", Tokens: []salience.Token{{Text: "The", ID: -1, SecondaryID: -1}}}
	chunkB := salience.Chunk{Label: "VP", Sentence: 1, Tokens: []salience.Token{{Text: "ran", ID: -1, SecondaryID: -1}}}
	section := salience.Section{
		InternalRepresentation: "[S]",
		Fingerprint:            "abc123",
		Header:                 "Intro",
		WordCount:              2,
		SentenceCount:          2,
		ObjectiveCount:         2,
		ParsedCount:            2,
		TermFrequency:          []salience.Frequency{{Term: "the", Count: 1}},
		BiGrams:                []salience.Frequency{{Term: "the dog", Count: 1}},
		Sentences: []salience.Sentence{
			{Text: "The.", Chunks: []salience.Chunk{chunkA}},
			{Text: "ran.", Chunks: []salience.Chunk{chunkB}},
		},
		Chunks: []salience.Chunk{chunkA, chunkB},
		Rows:   []salience.Document{{Sentences: []salience.Sentence{{Text: "cell"}}}},
	}
	want := salience.DocumentDetails{Sections: []salience.Section{section}}

	e := enginetest.New()
	e.Result(engine.GetDocumentDetails, func(tr *enginetest.Tree, desc uint32) {
		tr.DocumentDetails(desc, want)
	})

	got, err := newFetcher(e).DocumentDetails(context.Background(), "")
	if err != nil {
		t.Fatalf("DocumentDetails: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DocumentDetails mismatch\n got: %+v\nwant: %+v", got, want)
	}
	sec := got.Sections[0]
	if sec.SentenceCount != len(sec.Sentences) {
		t.Errorf("SentenceCount = %d, sentences = %d", sec.SentenceCount, len(sec.Sentences))
	}
	assertReleased(t, e)
}

func TestFetch_CollectionDetailsHasNoRelease(t *testing.T) {
	e := enginetest.New()
	e.Handle(engine.GetCollectionDetails, func(_ context.Context, e *enginetest.Engine, args []uint32) salience.Status {
		if err := e.Arena().WriteI32(args[1], 12); err != nil {
			t.Fatal(err)
		}
		return salience.StatusOK
	})

	got, err := newFetcher(e).CollectionDetails(context.Background(), "")
	if err != nil {
		t.Fatalf("CollectionDetails: %v", err)
	}
	if got.Size != 12 {
		t.Errorf("Size = %d, want 12", got.Size)
	}
	if n := e.TotalFrees(); n != 0 {
		t.Errorf("release calls = %d, want 0", n)
	}
}

func TestFetch_OwnedGraphOutlivesNativeTree(t *testing.T) {
	e := enginetest.New()
	var desc uint32
	e.Result(engine.GetIntentions, func(tr *enginetest.Tree, d uint32) {
		desc = d
		tr.IntentionList(d, []salience.Intention{{
			What:      "buy",
			Who:       "customer",
			Type:      "buy",
			WhatChunk: salience.Chunk{Label: "VP", Tokens: []salience.Token{{Text: "buy", ID: -1, SecondaryID: -1}}},
		}})
	})

	f := newFetcher(e)
	var snapshot []salience.Intention
	got, err := marshal.Fetch(context.Background(), f, marshal.IntentionsSpec, "", nil,
		func(r *marshal.Reader, d uint32) []salience.Intention {
			snapshot = r.IntentionList(d)
			return r.IntentionList(d)
		})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !reflect.DeepEqual(got, snapshot) {
		t.Fatalf("owned graph differs from pre-release snapshot")
	}

	// Scribble over the released descriptor; the owned graph must not change.
	if err := e.Arena().Write(desc, make([]byte, layout.IntentionList.Size())); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, snapshot) || got[0].WhatChunk.Tokens[0].Text != "buy" {
		t.Errorf("owned graph changed after release: %+v", got)
	}
	assertReleased(t, e)
}

func TestFetch_ResourceTable(t *testing.T) {
	e := enginetest.New()
	e.Result(engine.GetUserDefinedEntities, func(tr *enginetest.Tree, desc uint32) {
		tr.EntityList(desc, nil)
	})

	table := resource.NewTable()
	detector := resource.Watch(table)

	var live int
	e.Handle(engine.FreeEntityList, func(ctx context.Context, e *enginetest.Engine, args []uint32) salience.Status {
		live = len(table.Live(resource.KindResult))
		return salience.StatusOK
	})

	f := newFetcher(e)
	f.Table = table
	got, err := f.Entities(context.Background(), marshal.UserEntitiesSpec, "")
	if err != nil {
		t.Fatalf("Entities: %v", err)
	}
	if got != nil {
		t.Errorf("empty list should decode to nil, got %v", got)
	}
	if live != 1 {
		t.Errorf("live results during release = %d, want 1", live)
	}
	if err := detector.Check(); err != nil {
		t.Errorf("leak detector: %v", err)
	}
}

func TestFetch_ReleaseFailureKeepsHandle(t *testing.T) {
	e := enginetest.New()
	e.Result(engine.GetThemes, func(tr *enginetest.Tree, desc uint32) {
		tr.ThemeList(desc, []salience.Theme{{Theme: "Outlook"}})
	})
	e.Fail(engine.FreeThemeList, salience.StatusInvalidParameter)

	core, logs := observer.New(zapcore.WarnLevel)
	table := resource.NewTable()
	detector := resource.Watch(table)

	f := newFetcher(e)
	f.Table = table
	f.Log = zap.New(core)
	got, err := f.Themes(context.Background(), "")
	if err != nil {
		t.Fatalf("Themes: %v", err)
	}
	if len(got) != 1 || got[0].Theme != "Outlook" {
		t.Errorf("themes = %+v", got)
	}
	if n := logs.FilterMessage("result release failed").Len(); n != 1 {
		t.Errorf("%d release warnings, want 1", n)
	}
	if live := table.Live(resource.KindResult); len(live) != 1 {
		t.Errorf("live results = %+v, want the unreleased descriptor", live)
	}
	if err := detector.Check(); !stderrors.Is(err, &errors.Error{Kind: errors.KindLeak}) {
		t.Errorf("leak detector = %v", err)
	}
	if n := e.Arena().Live(); n == 0 {
		t.Error("engine tree freed despite the failed release")
	}
}

func TestFetch_CollectionFacets(t *testing.T) {
	attr := func(name string, word int) salience.Attribute {
		return salience.Attribute{
			Attribute:        name,
			Count:            4,
			PositiveCount:    2,
			NegativeCount:    1,
			NeutralCount:     1,
			Mentions:         []salience.Phrase{phrase(name, word), phrase(name+"s", word+1)},
			PositiveMentions: []salience.Phrase{phrase("great "+name, word+2)},
			NegativeMentions: []salience.Phrase{phrase("poor "+name, word+3)},
			NeutralMentions:  []salience.Phrase{phrase(name, word+4)},
		}
	}

	tests := []struct {
		name   string
		facets []salience.Facet
	}{
		{
			name: "nested attributes and mentions",
			facets: []salience.Facet{
				{
					Facet:            "hotel",
					SubFacets:        "room|lobby",
					Count:            7,
					PositiveCount:    3,
					NegativeCount:    2,
					NeutralCount:     2,
					Attributes:       []salience.Attribute{attr("staff", 1), attr("breakfast", 20)},
					Mentions:         []salience.Phrase{phrase("hotel", 0), phrase("the hotel", 9)},
					PositiveMentions: []salience.Phrase{phrase("lovely hotel", 14)},
					NegativeMentions: []salience.Phrase{phrase("noisy hotel", 30)},
					NeutralMentions:  []salience.Phrase{phrase("hotel", 40)},
				},
				{Facet: "price", Count: 1, PositiveCount: 1, Mentions: []salience.Phrase{phrase("price", 3)}},
			},
		},
		{
			name:   "bare facet",
			facets: []salience.Facet{{Facet: "location"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enginetest.New()
			e.Result(engine.GetCollectionFacets, func(tr *enginetest.Tree, desc uint32) {
				tr.FacetList(desc, tt.facets)
			})

			got, err := newFetcher(e).CollectionFacets(context.Background(), "")
			if err != nil {
				t.Fatalf("CollectionFacets: %v", err)
			}
			if !reflect.DeepEqual(got, tt.facets) {
				t.Errorf("CollectionFacets mismatch\n got: %+v\nwant: %+v", got, tt.facets)
			}
			if e.Calls(engine.FreeFacetList) != 1 {
				t.Errorf("lxaFreeFacetList called %d times", e.Calls(engine.FreeFacetList))
			}
			assertReleased(t, e)
		})
	}
}

func TestFetch_CollectionEntities(t *testing.T) {
	want := []salience.CollectionEntity{
		{
			NormalizedForm: "Acme Corp",
			Type:           "Company",
			Label:          "ORG",
			Count:          5,
			PositiveCount:  2,
			NegativeCount:  1,
			NeutralCount:   2,
			Mentions:       []salience.Phrase{phrase("Acme", 0), phrase("Acme Corp", 11)},
		},
		{NormalizedForm: "Springfield", Type: "Place", Count: 1},
	}

	tests := []struct {
		name string
		spec marshal.Spec
	}{
		{"named", marshal.CollectionEntitiesSpec},
		{"user", marshal.CollectionUserEntitiesSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enginetest.New()
			e.Result(tt.spec.Fetch, func(tr *enginetest.Tree, desc uint32) {
				tr.CollectionEntityList(desc, want)
			})

			got, err := newFetcher(e).CollectionEntities(context.Background(), tt.spec, "")
			if err != nil {
				t.Fatalf("CollectionEntities: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("CollectionEntities mismatch\n got: %+v\nwant: %+v", got, want)
			}
			if e.Calls(engine.FreeCollectionEntityList) != 1 {
				t.Errorf("lxaFreeCollectionEntityList called %d times", e.Calls(engine.FreeCollectionEntityList))
			}
			assertReleased(t, e)
		})
	}
}

func TestFetch_MissingEntryPoint(t *testing.T) {
	e := enginetest.New()
	_, err := newFetcher(e).Intentions(context.Background(), "")
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindNotFound}) {
		t.Errorf("expected not_found, got %v", err)
	}
	if n := e.Arena().Live(); n != 0 {
		t.Errorf("live arena blocks = %d", n)
	}
}

func TestFetcher_Strings(t *testing.T) {
	e := enginetest.New()
	st := enginetest.InstallSession(e)
	st.ErrorMessage = "explain failed"
	e.StringResult(engine.GetNamedOpinionTaggedText, "[OPINION]Great[/OPINION]")
	e.StringResult(engine.ExplainConceptMatches, "")
	f := newFetcher(e)
	ctx := context.Background()

	tagged, err := f.String(ctx, engine.GetNamedOpinionTaggedText, "")
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if tagged != "[OPINION]Great[/OPINION]" {
		t.Errorf("tagged text = %q", tagged)
	}

	_, err = f.ExplainConceptMatches(ctx, "")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFetch, Kind: errors.KindEngine}) {
		t.Fatalf("expected engine error for null explanation, got %v", err)
	}
	if !strings.Contains(err.Error(), "explain failed") {
		t.Errorf("error should carry the engine message: %v", err)
	}

	e.Fail(engine.DumpEnvironment, 99)
	if _, err := f.SessionString(ctx, engine.DumpEnvironment); !stderrors.Is(err, &errors.Error{Kind: errors.KindEngine}) {
		t.Errorf("expected engine error, got %v", err)
	}
	if f.LastStatus() != 99 {
		t.Errorf("LastStatus = %v, want 99", f.LastStatus())
	}

	// Tagged text plus two error strings.
	if n := e.StringFrees(); n != 3 {
		t.Errorf("engine strings released = %d, want 3", n)
	}
	if n := e.Arena().Live(); n != 0 {
		t.Errorf("live arena blocks = %d", n)
	}
}

func TestOutString_Sessionless(t *testing.T) {
	e := enginetest.New()
	enginetest.InstallSession(e)
	c := codec.New(codec.UTF8)

	v, status, err := marshal.OutString(context.Background(), e, c, engine.GetVersion, nil)
	if err != nil {
		t.Fatalf("OutString: %v", err)
	}
	if v != "6.5.0" || status != salience.StatusOK {
		t.Errorf("got %q status %v", v, status)
	}
	if n := e.StringFrees(); n != 1 {
		t.Errorf("engine strings released = %d, want 1", n)
	}
}

func TestErrorString_Empty(t *testing.T) {
	e := enginetest.New()
	enginetest.InstallSession(e)
	if s := marshal.ErrorString(context.Background(), e, codec.New(codec.UTF8), enginetest.SessionHandle); s != "" {
		t.Errorf("ErrorString = %q, want empty", s)
	}
}
