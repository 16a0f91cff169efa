package enginetest

import (
	"strings"

	"github.com/wippyai/salience-go"
	"github.com/wippyai/salience-go/internal/layout"
)

// Tree is a set of engine-owned blocks released together, the way the
// engine frees a whole result with one call. Its methods lay out owned
// values as native records; empty strings are written as null pointers.
type Tree struct {
	e      *Engine
	blocks []uint32
}

func (e *Engine) NewTree() *Tree {
	return &Tree{e: e}
}

// Blocks returns the number of blocks the tree holds.
func (t *Tree) Blocks() int {
	return len(t.blocks)
}

// Alloc returns a zeroed block of size bytes.
func (t *Tree) Alloc(size uint32) uint32 {
	if size == 0 {
		size = 1
	}
	ptr, err := t.e.arena.Alloc(size, 8)
	must(err)
	t.blocks = append(t.blocks, ptr)
	return ptr
}

// Release frees every block of the tree.
func (t *Tree) Release() {
	for _, b := range t.blocks {
		t.e.arena.Free(b, 0, 8)
	}
	t.blocks = nil
}

// String stores s NUL-terminated and returns its address; "" is null.
func (t *Tree) String(s string) uint32 {
	if s == "" {
		return 0
	}
	ptr := t.Alloc(uint32(len(s) + 1))
	must(t.e.arena.Write(ptr, append([]byte(s), 0)))
	return ptr
}

func (t *Tree) I32(base uint32, rec *layout.Record, field string, v int32) {
	must(t.e.arena.WriteI32(base+rec.Offset(field), v))
}

func (t *Tree) Int(base uint32, rec *layout.Record, field string, v int) {
	t.I32(base, rec, field, int32(v))
}

func (t *Tree) Bool(base uint32, rec *layout.Record, field string, v bool) {
	var n int32
	if v {
		n = 1
	}
	t.I32(base, rec, field, n)
}

func (t *Tree) F32(base uint32, rec *layout.Record, field string, v float32) {
	must(t.e.arena.WriteF32(base+rec.Offset(field), v))
}

func (t *Tree) Ptr(base uint32, rec *layout.Record, field string, v uint32) {
	must(t.e.arena.WriteU32(base+rec.Offset(field), v))
}

func (t *Tree) Str(base uint32, rec *layout.Record, field, s string) {
	t.Ptr(base, rec, field, t.String(s))
}

// Array lays out n items of shape item and returns the address of the
// first, or 0 when n is 0.
func (t *Tree) Array(n int, item *layout.Record, fn func(i int, base uint32)) uint32 {
	if n == 0 {
		return 0
	}
	ptr := t.Alloc(uint32(n) * item.Size())
	for i := 0; i < n; i++ {
		fn(i, ptr+uint32(i)*item.Size())
	}
	return ptr
}

// List writes a {pItems, nLength} list record at the address at.
func (t *Tree) List(at uint32, list, item *layout.Record, n int, fn func(i int, base uint32)) {
	t.Ptr(at, list, layout.ListItems, t.Array(n, item, fn))
	t.Int(at, list, layout.ListLength, n)
}

func (t *Tree) Phrase(base uint32, p salience.Phrase) {
	rec := layout.Phrase
	t.Str(base, rec, "acText", p.Text)
	t.Int(base, rec, "nDocument", p.Document)
	t.Int(base, rec, "nSentence", p.Sentence)
	t.Int(base, rec, "nWord", p.Word)
	t.Int(base, rec, "nLength", p.Length)
	t.Int(base, rec, "nByte", p.Byte)
	t.Int(base, rec, "nByteLength", p.ByteLength)
	t.Bool(base, rec, "nIsNegated", p.Negated)
	t.Str(base, rec, "acNegator", p.Negator)
	t.Int(base, rec, "nType", p.Type)
	t.Int(base, rec, "nSection", p.Section)
	t.Int(base, rec, "nRow", p.Row)
	t.Int(base, rec, "nColumn", p.Column)
}

func (t *Tree) PhraseList(at uint32, ps []salience.Phrase) {
	t.List(at, layout.PhraseList, layout.Phrase, len(ps), func(i int, base uint32) {
		t.Phrase(base, ps[i])
	})
}

func (t *Tree) phrases(base uint32, rec *layout.Record, field string, ps []salience.Phrase) {
	t.PhraseList(base+rec.Offset(field), ps)
}

func (t *Tree) Token(base uint32, tok salience.Token) {
	rec := layout.Word
	t.Str(base, rec, "acToken", tok.Text)
	t.Str(base, rec, "acPOSTag", tok.POSTag)
	t.Str(base, rec, "acStem", tok.Stem)
	t.Bool(base, rec, "nInvert", tok.Invert)
	t.F32(base, rec, "fSentiment", tok.Sentiment)
	t.Int(base, rec, "nSentimentType", int(tok.SentimentType))
	t.Str(base, rec, "acEntityType", tok.EntityType)
	t.Int(base, rec, "nId", tok.ID)
	t.Int(base, rec, "nSecondaryId", tok.SecondaryID)
	t.Bool(base, rec, "nPostFixed", tok.PostFixed)
}

func (t *Tree) tokens(toks []salience.Token) uint32 {
	return t.Array(len(toks), layout.Word, func(i int, base uint32) {
		t.Token(base, toks[i])
	})
}

func (t *Tree) Chunk(base uint32, c salience.Chunk) {
	rec := layout.Chunk
	t.Ptr(base, rec, "pTokens", t.tokens(c.Tokens))
	t.Int(base, rec, "nLength", len(c.Tokens))
	t.Str(base, rec, "acLabel", c.Label)
	t.Int(base, rec, "nSentence", c.Sentence)
	t.F32(base, rec, "fSentiment", c.Sentiment)
}

func (t *Tree) Sentence(base uint32, s salience.Sentence) {
	rec := layout.Sentence
	t.Ptr(base, rec, "pTokens", t.tokens(s.Tokens))
	t.Ptr(base, rec, "pChunks", t.Array(len(s.Chunks), layout.Chunk, func(i int, b uint32) {
		t.Chunk(b, s.Chunks[i])
	}))
	t.Int(base, rec, "nLength", len(s.Tokens))
	t.Int(base, rec, "nChunkCount", len(s.Chunks))
	t.Bool(base, rec, "nSubjective", s.Subjective)
	t.Bool(base, rec, "nPolar", s.Polar)
	t.Bool(base, rec, "nImperative", s.Imperative)
	t.Int(base, rec, "nSummaryRank", s.SummaryRank)
	t.Str(base, rec, "acText", s.Text)
	t.F32(base, rec, "fSentiment", s.Sentiment)
}

func (t *Tree) sentences(ss []salience.Sentence) uint32 {
	return t.Array(len(ss), layout.Sentence, func(i int, base uint32) {
		t.Sentence(base, ss[i])
	})
}

func (t *Tree) Document(base uint32, d salience.Document) {
	t.Int(base, layout.Document, "nSentenceCount", len(d.Sentences))
	t.Ptr(base, layout.Document, "pSentences", t.sentences(d.Sentences))
}

// NewDocument lays out d in a block of its own and returns its address.
func (t *Tree) NewDocument(d salience.Document) uint32 {
	ptr := t.Alloc(layout.Document.Size())
	t.Document(ptr, d)
	return ptr
}

func (t *Tree) frequencies(base uint32, field string, fs []salience.Frequency) {
	t.List(base+layout.Section.Offset(field), layout.TokenList, layout.Token, len(fs), func(i int, b uint32) {
		t.Str(b, layout.Token, "acToken", fs[i].Term)
		t.Int(b, layout.Token, "nCount", fs[i].Count)
	})
}

// Section lays out s. Section chunks are derived from its sentences and
// are not written separately.
func (t *Tree) Section(base uint32, s salience.Section) {
	rec := layout.Section
	t.Int(base, rec, "nWordCount", s.WordCount)
	t.Int(base, rec, "nSentenceCount", len(s.Sentences))
	t.Int(base, rec, "nObjectiveCount", s.ObjectiveCount)
	t.Int(base, rec, "nSubjectiveCount", s.SubjectiveCount)
	t.Int(base, rec, "nParsedCount", s.ParsedCount)
	t.frequencies(base, "oTermFrequency", s.TermFrequency)
	t.frequencies(base, "oTaggedTermFrequency", s.TaggedTermFrequency)
	t.frequencies(base, "oBiGrams", s.BiGrams)
	t.frequencies(base, "oTaggedBiGrams", s.TaggedBiGrams)
	t.frequencies(base, "oTriGrams", s.TriGrams)
	t.frequencies(base, "oTaggedTriGrams", s.TaggedTriGrams)
	t.frequencies(base, "oQuadGrams", s.QuadGrams)
	t.frequencies(base, "oNegators", s.Negators)
	t.frequencies(base, "oIntensifiers", s.Intensifiers)
	t.Ptr(base, rec, "pSentences", t.sentences(s.Sentences))
	t.Str(base, rec, "acInternalRepresentation", s.InternalRepresentation)
	t.Str(base, rec, "acFingerprint", s.Fingerprint)
	rows := base + rec.Offset("oRows")
	t.Int(rows, layout.RowList, "nRowCount", len(s.Rows))
	t.Ptr(rows, layout.RowList, "pRows", t.Array(len(s.Rows), layout.Document, func(i int, b uint32) {
		t.Document(b, s.Rows[i])
	}))
	t.Str(base, rec, "acHeader", s.Header)
}

func (t *Tree) DocumentDetails(base uint32, d salience.DocumentDetails) {
	t.Int(base, layout.DocumentDetails, "nSectionCount", len(d.Sections))
	t.Ptr(base, layout.DocumentDetails, "oSections", t.Array(len(d.Sections), layout.Section, func(i int, b uint32) {
		t.Section(b, d.Sections[i])
	}))
}

func (t *Tree) Topic(base uint32, tp salience.Topic) {
	rec := layout.Topic
	t.Str(base, rec, "acTopic", tp.Topic)
	t.Int(base, rec, "nHits", tp.Hits)
	t.F32(base, rec, "fScore", tp.Score)
	t.F32(base, rec, "fSentiment", tp.Sentiment)
	t.Str(base, rec, "acAdditional", tp.Summary)
	t.Int(base, rec, "nType", tp.Type)
	if len(tp.Children) > 0 {
		children := t.Alloc(layout.TopicList.Size())
		t.TopicList(children, tp.Children)
		t.Ptr(base, rec, "pChildren", children)
	}
	t.EntityList(base+rec.Offset("oEntities"), tp.Entities)
}

func (t *Tree) TopicList(at uint32, ts []salience.Topic) {
	t.List(at, layout.TopicList, layout.Topic, len(ts), func(i int, b uint32) {
		t.Topic(b, ts[i])
	})
}

// CollectionTopicList lays out collection topics, joining each topic's
// documents with '|' into its additional text.
func (t *Tree) CollectionTopicList(at uint32, ts []salience.Topic) {
	t.List(at, layout.TopicList, layout.Topic, len(ts), func(i int, b uint32) {
		tp := ts[i]
		tp.Summary = strings.Join(tp.Documents, "|")
		tp.Children, tp.Entities = nil, nil
		t.Topic(b, tp)
	})
}

func (t *Tree) Theme(base uint32, th salience.Theme) {
	rec := layout.Theme
	t.Str(base, rec, "acTheme", th.Theme)
	t.Str(base, rec, "acStemmedTheme", th.Stemmed)
	t.Str(base, rec, "acNormalizedTheme", th.Normalized)
	t.Int(base, rec, "nThemeType", th.Type)
	t.F32(base, rec, "fScore", th.Score)
	t.F32(base, rec, "fSentiment", th.Sentiment)
	t.Int(base, rec, "nEvidence", th.Evidence)
	t.Bool(base, rec, "nAbout", th.About)
	t.Str(base, rec, "acSummary", th.Summary)
	t.phrases(base, rec, "oMentions", th.Mentions)
	t.TopicList(base+rec.Offset("oTopics"), th.Topics)
	t.List(base+rec.Offset("oAlternateThemes"), layout.AlternateThemeList, layout.AlternateTheme, len(th.AlternateThemes), func(i int, b uint32) {
		t.Str(b, layout.AlternateTheme, "acAlternateTheme", th.AlternateThemes[i].Theme)
		t.F32(b, layout.AlternateTheme, "fScore", th.AlternateThemes[i].Score)
	})
	t.phrases(base, rec, "oChildMentions", th.ChildMentions)
	t.phrases(base, rec, "oRelatedMentions", th.RelatedMentions)
}

func (t *Tree) ThemeList(at uint32, ths []salience.Theme) {
	t.List(at, layout.ThemeList, layout.Theme, len(ths), func(i int, b uint32) {
		t.Theme(b, ths[i])
	})
}

// Entity lays out en. Count and FirstPos are derived on read and are not
// stored.
func (t *Tree) Entity(base uint32, en salience.Entity) {
	rec := layout.Entity
	t.Str(base, rec, "acNormalizedForm", en.NormalizedForm)
	t.Str(base, rec, "acType", en.Type)
	t.Str(base, rec, "acLabel", en.Label)
	t.F32(base, rec, "fSentimentScore", en.SentimentScore)
	t.Int(base, rec, "nEvidence", en.Evidence)
	t.Int(base, rec, "nConfident", en.Confident)
	t.Int(base, rec, "nAbout", en.About)
	t.Str(base, rec, "acSummary", en.Summary)
	t.List(base+rec.Offset("oMentions"), layout.MentionList, layout.Mention, len(en.Mentions), func(i int, b uint32) {
		m := en.Mentions[i]
		t.Phrase(b+layout.Mention.Offset("oPhrase"), m.Phrase)
		t.Int(b, layout.Mention, "nType", m.Type)
		t.F32(b, layout.Mention, "fScore", m.Score)
	})
	t.ThemeList(base+rec.Offset("oThemes"), en.Themes)
	t.SentimentPhraseList(base+rec.Offset("oSentimentPhrases"), en.SentimentPhrases)
	t.TopicList(base+rec.Offset("oTopics"), en.Topics)
}

func (t *Tree) EntityList(at uint32, es []salience.Entity) {
	t.List(at, layout.EntityList, layout.Entity, len(es), func(i int, b uint32) {
		t.Entity(b, es[i])
	})
}

func (t *Tree) SentimentPhrase(base uint32, sp salience.SentimentPhrase) {
	rec := layout.SentimentPhrase
	t.Phrase(base+rec.Offset("oPhrase"), sp.Phrase)
	t.F32(base, rec, "fScore", sp.Score)
	t.Int(base, rec, "nType", sp.Type)
	t.Str(base, rec, "acSource", sp.Source)
	t.Int(base, rec, "nModified", sp.Modified)
	t.phrases(base, rec, "oSupportingPhrases", sp.SupportingPhrases)
}

func (t *Tree) SentimentPhraseList(at uint32, sps []salience.SentimentPhrase) {
	t.List(at, layout.SentimentPhraseList, layout.SentimentPhrase, len(sps), func(i int, b uint32) {
		t.SentimentPhrase(b, sps[i])
	})
}

func (t *Tree) Sentiment(base uint32, s salience.Sentiment) {
	rec := layout.SentimentResult
	t.F32(base, rec, "fScore", s.Score)
	t.SentimentPhraseList(base+rec.Offset("oPhrases"), s.Phrases)
	t.Ptr(base, rec, "pModel", t.Array(len(s.Models), layout.SentimentModel, func(i int, b uint32) {
		m := s.Models[i]
		t.Int(b, layout.SentimentModel, "nBest", m.Best)
		t.F32(b, layout.SentimentModel, "fPositive", m.Positive)
		t.F32(b, layout.SentimentModel, "fNegative", m.Negative)
		t.F32(b, layout.SentimentModel, "fMixed", m.Mixed)
		t.F32(b, layout.SentimentModel, "fNeutral", m.Neutral)
		t.Str(b, layout.SentimentModel, "acModelName", m.Name)
	}))
	t.Int(base, rec, "nModelCount", len(s.Models))
	t.TopicList(base+rec.Offset("oEmotions"), s.Emotions)
}

func (t *Tree) CollectionEntityList(at uint32, ces []salience.CollectionEntity) {
	t.List(at, layout.CollectionEntityList, layout.CollectionEntity, len(ces), func(i int, b uint32) {
		ce, rec := ces[i], layout.CollectionEntity
		t.Str(b, rec, "acNormalizedForm", ce.NormalizedForm)
		t.Str(b, rec, "acType", ce.Type)
		t.Str(b, rec, "acLabel", ce.Label)
		t.Int(b, rec, "nCount", ce.Count)
		t.Int(b, rec, "nPositiveCount", ce.PositiveCount)
		t.Int(b, rec, "nNegativeCount", ce.NegativeCount)
		t.Int(b, rec, "nNeutralCount", ce.NeutralCount)
		t.phrases(b, rec, "oMentions", ce.Mentions)
	})
}

func (t *Tree) Attribute(base uint32, a salience.Attribute) {
	rec := layout.Attribute
	t.Str(base, rec, "acAttribute", a.Attribute)
	t.Int(base, rec, "nCount", a.Count)
	t.Int(base, rec, "nPositiveCount", a.PositiveCount)
	t.Int(base, rec, "nNegativeCount", a.NegativeCount)
	t.Int(base, rec, "nNeutralCount", a.NeutralCount)
	t.phrases(base, rec, "oMentions", a.Mentions)
	t.phrases(base, rec, "oPositiveMentions", a.PositiveMentions)
	t.phrases(base, rec, "oNegativeMentions", a.NegativeMentions)
	t.phrases(base, rec, "oNeutralMentions", a.NeutralMentions)
}

func (t *Tree) FacetList(at uint32, fs []salience.Facet) {
	t.List(at, layout.FacetList, layout.Facet, len(fs), func(i int, b uint32) {
		f, rec := fs[i], layout.Facet
		t.Str(b, rec, "acFacet", f.Facet)
		t.Str(b, rec, "acSubFacetList", f.SubFacets)
		t.Int(b, rec, "nCount", f.Count)
		t.Int(b, rec, "nPositiveCount", f.PositiveCount)
		t.Int(b, rec, "nNegativeCount", f.NegativeCount)
		t.Int(b, rec, "nNeutralCount", f.NeutralCount)
		t.Ptr(b, rec, "pAttributes", t.Array(len(f.Attributes), layout.Attribute, func(j int, ab uint32) {
			t.Attribute(ab, f.Attributes[j])
		}))
		t.Int(b, rec, "nSubjectLength", len(f.Attributes))
		t.phrases(b, rec, "oMentions", f.Mentions)
		t.phrases(b, rec, "oPositiveMentions", f.PositiveMentions)
		t.phrases(b, rec, "oNegativeMentions", f.NegativeMentions)
		t.phrases(b, rec, "oNeutralMentions", f.NeutralMentions)
	})
}

func (t *Tree) RelationList(at uint32, rs []salience.Relation) {
	t.List(at, layout.RelationList, layout.Relation, len(rs), func(i int, b uint32) {
		r, rec := rs[i], layout.Relation
		t.EntityList(b+rec.Offset("oEntities"), r.Entities)
		t.Str(b, rec, "acType", r.Label)
		t.F32(b, rec, "fConfidence", r.Score)
		t.Str(b, rec, "acExtra", r.Extra)
	})
}

// OpinionList lays out opinions; nHasTheme follows ThemeTopic != nil.
func (t *Tree) OpinionList(at uint32, os []salience.Opinion) {
	t.List(at, layout.OpinionList, layout.Opinion, len(os), func(i int, b uint32) {
		o, rec := os[i], layout.Opinion
		t.Entity(b+rec.Offset("oSpeaker"), o.Speaker)
		if o.EntityTopic != nil {
			t.Entity(b+rec.Offset("oEntityTopic"), *o.EntityTopic)
		}
		if o.ThemeTopic != nil {
			t.Theme(b+rec.Offset("oThemeTopic"), *o.ThemeTopic)
		}
		t.Str(b, rec, "acQuotation", o.Quotation)
		t.F32(b, rec, "fSentiment", o.Sentiment)
		t.Bool(b, rec, "nHasTheme", o.ThemeTopic != nil)
	})
}

func (t *Tree) IntentionList(at uint32, is []salience.Intention) {
	t.List(at, layout.IntentionList, layout.Intention, len(is), func(i int, b uint32) {
		in, rec := is[i], layout.Intention
		t.Str(b, rec, "acWhat", in.What)
		t.Str(b, rec, "acWho", in.Who)
		t.Str(b, rec, "acEvidence", in.Evidence)
		t.Str(b, rec, "acType", in.Type)
		t.Chunk(b+rec.Offset("oWhat"), in.WhatChunk)
		t.Chunk(b+rec.Offset("oWho"), in.WhoChunk)
		t.Chunk(b+rec.Offset("oEvidence"), in.EvidenceChunk)
	})
}

// Summary lays out s; a summary without sentences gets a null document.
func (t *Tree) Summary(base uint32, s salience.Summary) {
	rec := layout.SummaryResult
	t.Str(base, rec, "acSummary", s.Summary)
	t.Str(base, rec, "acAlternateSummary", s.AlternateSummary)
	if len(s.Sentences) > 0 {
		t.Ptr(base, rec, "pDocument", t.NewDocument(salience.Document{Sentences: s.Sentences}))
	}
	if len(s.AlternateSentences) > 0 {
		t.Ptr(base, rec, "pAlternateDocument", t.NewDocument(salience.Document{Sentences: s.AlternateSentences}))
	}
}
