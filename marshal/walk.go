package marshal

import (
	"strings"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/internal/layout"
)

// Walkers rebuild owned values from native records. Each takes the address
// of the record (or of the embedded list) and copies everything it needs;
// nothing returned refers to engine memory.

func (r *Reader) Phrase(base uint32) salience.Phrase {
	rec := layout.Phrase
	p := salience.Phrase{
		Text:       r.Str(base, rec, "acText"),
		Document:   r.Int(base, rec, "nDocument"),
		Sentence:   r.Int(base, rec, "nSentence"),
		Word:       r.Int(base, rec, "nWord"),
		Length:     r.Int(base, rec, "nLength"),
		Byte:       r.Int(base, rec, "nByte"),
		ByteLength: r.Int(base, rec, "nByteLength"),
		Negated:    r.Bool(base, rec, "nIsNegated"),
		Type:       r.Int(base, rec, "nType"),
		Section:    r.Int(base, rec, "nSection"),
		Row:        r.Int(base, rec, "nRow"),
		Column:     r.Int(base, rec, "nColumn"),
	}
	if p.Negated {
		p.Negator = r.Str(base, rec, "acNegator")
	}
	return p
}

// PhraseList walks a phrase list record.
func (r *Reader) PhraseList(list uint32) []salience.Phrase {
	items, n := r.list(list, layout.PhraseList, layout.Phrase)
	return each(r, items, n, layout.Phrase, r.Phrase)
}

func (r *Reader) phrases(base uint32, rec *layout.Record, field string) []salience.Phrase {
	return r.PhraseList(base + rec.Offset(field))
}

func (r *Reader) list(at uint32, list, item *layout.Record) (uint32, int) {
	items := r.Ptr(at, list, layout.ListItems)
	return items, r.Array(items, r.I32(at, list, layout.ListLength), item)
}

func (r *Reader) Token(base uint32) salience.Token {
	rec := layout.Word
	return salience.Token{
		Text:          r.Str(base, rec, "acToken"),
		POSTag:        r.Str(base, rec, "acPOSTag"),
		Stem:          r.Str(base, rec, "acStem"),
		Invert:        r.Bool(base, rec, "nInvert"),
		Sentiment:     r.F32(base, rec, "fSentiment"),
		SentimentType: salience.SentimentType(r.I32(base, rec, "nSentimentType")),
		EntityType:    r.Str(base, rec, "acEntityType"),
		ID:            r.Int(base, rec, "nId"),
		SecondaryID:   r.Int(base, rec, "nSecondaryId"),
		PostFixed:     r.Bool(base, rec, "nPostFixed"),
	}
}

func (r *Reader) tokens(ptr uint32, n int32) []salience.Token {
	return each(r, ptr, r.Array(ptr, n, layout.Word), layout.Word, r.Token)
}

func (r *Reader) Chunk(base uint32) salience.Chunk {
	rec := layout.Chunk
	return salience.Chunk{
		Label:     r.Str(base, rec, "acLabel"),
		Sentence:  r.Int(base, rec, "nSentence"),
		Sentiment: r.F32(base, rec, "fSentiment"),
		Tokens:    r.tokens(r.Ptr(base, rec, "pTokens"), r.I32(base, rec, "nLength")),
	}
}

func (r *Reader) Sentence(base uint32) salience.Sentence {
	rec := layout.Sentence
	chunks := r.Ptr(base, rec, "pChunks")
	return salience.Sentence{
		Tokens:      r.tokens(r.Ptr(base, rec, "pTokens"), r.I32(base, rec, "nLength")),
		Chunks:      each(r, chunks, r.Array(chunks, r.I32(base, rec, "nChunkCount"), layout.Chunk), layout.Chunk, r.Chunk),
		Subjective:  r.Bool(base, rec, "nSubjective"),
		Polar:       r.I32(base, rec, "nPolar") == 1,
		Imperative:  r.Bool(base, rec, "nImperative"),
		SummaryRank: r.Int(base, rec, "nSummaryRank"),
		Text:        r.Str(base, rec, "acText"),
		Sentiment:   r.F32(base, rec, "fSentiment"),
	}
}

func (r *Reader) sentences(ptr uint32, n int32) []salience.Sentence {
	return each(r, ptr, r.Array(ptr, n, layout.Sentence), layout.Sentence, r.Sentence)
}

// Document walks a document record. A null address is an empty document.
func (r *Reader) Document(base uint32) salience.Document {
	if base == 0 {
		return salience.Document{}
	}
	rec := layout.Document
	return salience.Document{
		Sentences: r.sentences(r.Ptr(base, rec, "pSentences"), r.I32(base, rec, "nSentenceCount")),
	}
}

func (r *Reader) Frequency(base uint32) salience.Frequency {
	return salience.Frequency{
		Term:  r.Str(base, layout.Token, "acToken"),
		Count: r.Int(base, layout.Token, "nCount"),
	}
}

func (r *Reader) frequencies(base uint32, field string) []salience.Frequency {
	items, n := r.List(base, layout.Section, field, layout.TokenList, layout.Token)
	return each(r, items, n, layout.Token, r.Frequency)
}

func (r *Reader) Section(base uint32) salience.Section {
	rec := layout.Section
	s := salience.Section{
		InternalRepresentation: r.Str(base, rec, "acInternalRepresentation"),
		Fingerprint:            r.Str(base, rec, "acFingerprint"),
		Header:                 r.Str(base, rec, "acHeader"),

		WordCount:       r.Int(base, rec, "nWordCount"),
		SentenceCount:   r.Int(base, rec, "nSentenceCount"),
		ObjectiveCount:  r.Int(base, rec, "nObjectiveCount"),
		SubjectiveCount: r.Int(base, rec, "nSubjectiveCount"),
		ParsedCount:     r.Int(base, rec, "nParsedCount"),

		TermFrequency:       r.frequencies(base, "oTermFrequency"),
		TaggedTermFrequency: r.frequencies(base, "oTaggedTermFrequency"),
		BiGrams:             r.frequencies(base, "oBiGrams"),
		TaggedBiGrams:       r.frequencies(base, "oTaggedBiGrams"),
		TriGrams:            r.frequencies(base, "oTriGrams"),
		TaggedTriGrams:      r.frequencies(base, "oTaggedTriGrams"),
		QuadGrams:           r.frequencies(base, "oQuadGrams"),
		Negators:            r.frequencies(base, "oNegators"),
		Intensifiers:        r.frequencies(base, "oIntensifiers"),
	}
	s.Sentences = r.sentences(r.Ptr(base, rec, "pSentences"), r.I32(base, rec, "nSentenceCount"))
	for _, sent := range s.Sentences {
		s.Chunks = append(s.Chunks, sent.Chunks...)
	}

	rows := base + rec.Offset("oRows")
	rowsPtr := r.Ptr(rows, layout.RowList, "pRows")
	n := r.Array(rowsPtr, r.I32(rows, layout.RowList, "nRowCount"), layout.Document)
	s.Rows = each(r, rowsPtr, n, layout.Document, r.Document)
	return s
}

func (r *Reader) DocumentDetails(base uint32) salience.DocumentDetails {
	rec := layout.DocumentDetails
	ptr := r.Ptr(base, rec, "oSections")
	n := r.Array(ptr, r.I32(base, rec, "nSectionCount"), layout.Section)
	return salience.DocumentDetails{Sections: each(r, ptr, n, layout.Section, r.Section)}
}

func (r *Reader) CollectionDetails(base uint32) salience.CollectionDetails {
	return salience.CollectionDetails{Size: r.Int(base, layout.CollectionDetails, "nSize")}
}

func (r *Reader) AlternateTheme(base uint32) salience.AlternateTheme {
	rec := layout.AlternateTheme
	return salience.AlternateTheme{
		Theme: r.Str(base, rec, "acAlternateTheme"),
		Score: r.F32(base, rec, "fScore"),
	}
}

// Topic walks a topic and its child topic tree.
func (r *Reader) Topic(base uint32) salience.Topic {
	rec := layout.Topic
	if !r.enter(rec) {
		return salience.Topic{}
	}
	defer r.leave()

	t := salience.Topic{
		Topic:     r.Str(base, rec, "acTopic"),
		Hits:      r.Int(base, rec, "nHits"),
		Score:     r.F32(base, rec, "fScore"),
		Sentiment: r.F32(base, rec, "fSentiment"),
		Type:      r.Int(base, rec, "nType"),
		Summary:   r.Str(base, rec, "acAdditional"),
	}
	if children := r.Ptr(base, rec, "pChildren"); children != 0 {
		t.Children = r.TopicList(children)
	}
	t.Entities = r.EntityList(base + rec.Offset("oEntities"))
	return t
}

func (r *Reader) TopicList(list uint32) []salience.Topic {
	items, n := r.list(list, layout.TopicList, layout.Topic)
	return each(r, items, n, layout.Topic, r.Topic)
}

// CollectionTopic walks a collection-level topic: its additional text is
// the '|'-separated list of matching document identifiers.
func (r *Reader) CollectionTopic(base uint32) salience.Topic {
	rec := layout.Topic
	t := salience.Topic{
		Topic:     r.Str(base, rec, "acTopic"),
		Hits:      r.Int(base, rec, "nHits"),
		Score:     r.F32(base, rec, "fScore"),
		Sentiment: r.F32(base, rec, "fSentiment"),
		Type:      r.Int(base, rec, "nType"),
	}
	if docs := r.Str(base, rec, "acAdditional"); docs != "" {
		t.Documents = strings.Split(docs, "|")
	}
	return t
}

func (r *Reader) CollectionTopicList(list uint32) []salience.Topic {
	items, n := r.list(list, layout.TopicList, layout.Topic)
	return each(r, items, n, layout.Topic, r.CollectionTopic)
}

func (r *Reader) Theme(base uint32) salience.Theme {
	rec := layout.Theme
	items, n := r.List(base, rec, "oAlternateThemes", layout.AlternateThemeList, layout.AlternateTheme)
	return salience.Theme{
		Theme:           r.Str(base, rec, "acTheme"),
		Stemmed:         r.Str(base, rec, "acStemmedTheme"),
		Normalized:      r.Str(base, rec, "acNormalizedTheme"),
		Type:            r.Int(base, rec, "nThemeType"),
		Score:           r.F32(base, rec, "fScore"),
		Sentiment:       r.F32(base, rec, "fSentiment"),
		Evidence:        r.Int(base, rec, "nEvidence"),
		About:           r.I32(base, rec, "nAbout") == 1,
		Summary:         r.Str(base, rec, "acSummary"),
		Mentions:        r.phrases(base, rec, "oMentions"),
		Topics:          r.TopicList(base + rec.Offset("oTopics")),
		AlternateThemes: each(r, items, n, layout.AlternateTheme, r.AlternateTheme),
		ChildMentions:   r.phrases(base, rec, "oChildMentions"),
		RelatedMentions: r.phrases(base, rec, "oRelatedMentions"),
	}
}

func (r *Reader) ThemeList(list uint32) []salience.Theme {
	items, n := r.list(list, layout.ThemeList, layout.Theme)
	return each(r, items, n, layout.Theme, r.Theme)
}

func (r *Reader) Mention(base uint32) salience.Mention {
	rec := layout.Mention
	return salience.Mention{
		Phrase: r.Phrase(base + rec.Offset("oPhrase")),
		Type:   r.Int(base, rec, "nType"),
		Score:  r.F32(base, rec, "fScore"),
	}
}

// Entity walks an entity. Count and FirstPos derive from the mention list;
// an entity without mentions reports salience.NoPosition.
func (r *Reader) Entity(base uint32) salience.Entity {
	rec := layout.Entity
	items, n := r.List(base, rec, "oMentions", layout.MentionList, layout.Mention)
	e := salience.Entity{
		NormalizedForm:   r.Str(base, rec, "acNormalizedForm"),
		Type:             r.Str(base, rec, "acType"),
		Label:            r.Str(base, rec, "acLabel"),
		SentimentScore:   r.F32(base, rec, "fSentimentScore"),
		Evidence:         r.Int(base, rec, "nEvidence"),
		Confident:        r.Int(base, rec, "nConfident"),
		About:            r.Int(base, rec, "nAbout"),
		Summary:          r.Str(base, rec, "acSummary"),
		Mentions:         each(r, items, n, layout.Mention, r.Mention),
		Themes:           r.ThemeList(base + rec.Offset("oThemes")),
		SentimentPhrases: r.SentimentPhraseList(base + rec.Offset("oSentimentPhrases")),
		Topics:           r.TopicList(base + rec.Offset("oTopics")),
	}
	e.Count = len(e.Mentions)
	e.FirstPos = salience.NoPosition
	if e.Count > 0 {
		e.FirstPos = e.Mentions[0].Phrase.Word
	}
	return e
}

func (r *Reader) EntityList(list uint32) []salience.Entity {
	items, n := r.list(list, layout.EntityList, layout.Entity)
	return each(r, items, n, layout.Entity, r.Entity)
}

func (r *Reader) SentimentPhrase(base uint32) salience.SentimentPhrase {
	rec := layout.SentimentPhrase
	return salience.SentimentPhrase{
		Phrase:            r.Phrase(base + rec.Offset("oPhrase")),
		Source:            r.Str(base, rec, "acSource"),
		Score:             r.F32(base, rec, "fScore"),
		Type:              r.Int(base, rec, "nType"),
		Modified:          r.Int(base, rec, "nModified"),
		SupportingPhrases: r.phrases(base, rec, "oSupportingPhrases"),
	}
}

func (r *Reader) SentimentPhraseList(list uint32) []salience.SentimentPhrase {
	items, n := r.list(list, layout.SentimentPhraseList, layout.SentimentPhrase)
	return each(r, items, n, layout.SentimentPhrase, r.SentimentPhrase)
}

func (r *Reader) ModelSentiment(base uint32) salience.ModelSentiment {
	rec := layout.SentimentModel
	return salience.ModelSentiment{
		Name:     r.Str(base, rec, "acModelName"),
		Best:     r.Int(base, rec, "nBest"),
		Positive: r.F32(base, rec, "fPositive"),
		Negative: r.F32(base, rec, "fNegative"),
		Mixed:    r.F32(base, rec, "fMixed"),
		Neutral:  r.F32(base, rec, "fNeutral"),
	}
}

func (r *Reader) Sentiment(base uint32) salience.Sentiment {
	rec := layout.SentimentResult
	models := r.Ptr(base, rec, "pModel")
	n := r.Array(models, r.I32(base, rec, "nModelCount"), layout.SentimentModel)
	return salience.Sentiment{
		Score:    r.F32(base, rec, "fScore"),
		Phrases:  r.SentimentPhraseList(base + rec.Offset("oPhrases")),
		Models:   each(r, models, n, layout.SentimentModel, r.ModelSentiment),
		Emotions: r.TopicList(base + rec.Offset("oEmotions")),
	}
}

func (r *Reader) CollectionEntity(base uint32) salience.CollectionEntity {
	rec := layout.CollectionEntity
	return salience.CollectionEntity{
		NormalizedForm: r.Str(base, rec, "acNormalizedForm"),
		Type:           r.Str(base, rec, "acType"),
		Label:          r.Str(base, rec, "acLabel"),
		Count:          r.Int(base, rec, "nCount"),
		PositiveCount:  r.Int(base, rec, "nPositiveCount"),
		NegativeCount:  r.Int(base, rec, "nNegativeCount"),
		NeutralCount:   r.Int(base, rec, "nNeutralCount"),
		Mentions:       r.phrases(base, rec, "oMentions"),
	}
}

func (r *Reader) CollectionEntityList(list uint32) []salience.CollectionEntity {
	items, n := r.list(list, layout.CollectionEntityList, layout.CollectionEntity)
	return each(r, items, n, layout.CollectionEntity, r.CollectionEntity)
}

func (r *Reader) Attribute(base uint32) salience.Attribute {
	rec := layout.Attribute
	return salience.Attribute{
		Attribute:        r.Str(base, rec, "acAttribute"),
		Count:            r.Int(base, rec, "nCount"),
		PositiveCount:    r.Int(base, rec, "nPositiveCount"),
		NegativeCount:    r.Int(base, rec, "nNegativeCount"),
		NeutralCount:     r.Int(base, rec, "nNeutralCount"),
		Mentions:         r.phrases(base, rec, "oMentions"),
		PositiveMentions: r.phrases(base, rec, "oPositiveMentions"),
		NegativeMentions: r.phrases(base, rec, "oNegativeMentions"),
		NeutralMentions:  r.phrases(base, rec, "oNeutralMentions"),
	}
}

func (r *Reader) Facet(base uint32) salience.Facet {
	rec := layout.Facet
	attrs := r.Ptr(base, rec, "pAttributes")
	n := r.Array(attrs, r.I32(base, rec, "nSubjectLength"), layout.Attribute)
	return salience.Facet{
		Facet:            r.Str(base, rec, "acFacet"),
		SubFacets:        r.Str(base, rec, "acSubFacetList"),
		Count:            r.Int(base, rec, "nCount"),
		PositiveCount:    r.Int(base, rec, "nPositiveCount"),
		NegativeCount:    r.Int(base, rec, "nNegativeCount"),
		NeutralCount:     r.Int(base, rec, "nNeutralCount"),
		Attributes:       each(r, attrs, n, layout.Attribute, r.Attribute),
		Mentions:         r.phrases(base, rec, "oMentions"),
		PositiveMentions: r.phrases(base, rec, "oPositiveMentions"),
		NegativeMentions: r.phrases(base, rec, "oNegativeMentions"),
		NeutralMentions:  r.phrases(base, rec, "oNeutralMentions"),
	}
}

func (r *Reader) FacetList(list uint32) []salience.Facet {
	items, n := r.list(list, layout.FacetList, layout.Facet)
	return each(r, items, n, layout.Facet, r.Facet)
}

func (r *Reader) Relation(base uint32) salience.Relation {
	rec := layout.Relation
	return salience.Relation{
		Score:    r.F32(base, rec, "fConfidence"),
		Label:    r.Str(base, rec, "acType"),
		Extra:    r.Str(base, rec, "acExtra"),
		Entities: r.EntityList(base + rec.Offset("oEntities")),
	}
}

func (r *Reader) RelationList(list uint32) []salience.Relation {
	items, n := r.list(list, layout.RelationList, layout.Relation)
	return each(r, items, n, layout.Relation, r.Relation)
}

// Opinion walks an opinion. nHasTheme selects which embedded topic record
// is meaningful; the other is not read.
func (r *Reader) Opinion(base uint32) salience.Opinion {
	rec := layout.Opinion
	o := salience.Opinion{
		Speaker:   r.Entity(base + rec.Offset("oSpeaker")),
		Quotation: r.Str(base, rec, "acQuotation"),
		Sentiment: r.F32(base, rec, "fSentiment"),
	}
	if r.Bool(base, rec, "nHasTheme") {
		theme := r.Theme(base + rec.Offset("oThemeTopic"))
		o.ThemeTopic = &theme
	} else {
		entity := r.Entity(base + rec.Offset("oEntityTopic"))
		o.EntityTopic = &entity
	}
	return o
}

func (r *Reader) OpinionList(list uint32) []salience.Opinion {
	items, n := r.list(list, layout.OpinionList, layout.Opinion)
	return each(r, items, n, layout.Opinion, r.Opinion)
}

func (r *Reader) Intention(base uint32) salience.Intention {
	rec := layout.Intention
	return salience.Intention{
		What:          r.Str(base, rec, "acWhat"),
		Who:           r.Str(base, rec, "acWho"),
		Evidence:      r.Str(base, rec, "acEvidence"),
		Type:          r.Str(base, rec, "acType"),
		WhatChunk:     r.Chunk(base + rec.Offset("oWhat")),
		WhoChunk:      r.Chunk(base + rec.Offset("oWho")),
		EvidenceChunk: r.Chunk(base + rec.Offset("oEvidence")),
	}
}

func (r *Reader) IntentionList(list uint32) []salience.Intention {
	items, n := r.list(list, layout.IntentionList, layout.Intention)
	return each(r, items, n, layout.Intention, r.Intention)
}

// Summary walks a summary result. Either document pointer may be null.
func (r *Reader) Summary(base uint32) salience.Summary {
	rec := layout.SummaryResult
	return salience.Summary{
		Summary:            r.Str(base, rec, "acSummary"),
		Sentences:          r.Document(r.Ptr(base, rec, "pDocument")).Sentences,
		AlternateSummary:   r.Str(base, rec, "acAlternateSummary"),
		AlternateSentences: r.Document(r.Ptr(base, rec, "pAlternateDocument")).Sentences,
	}
}
