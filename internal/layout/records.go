package layout

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

// Record is a native struct shape with its computed layout.
type Record struct {
	Type *wit.TypeDef
	Name string
	Info Info
}

// Offset returns the byte offset of field. Asking for a field the record
// does not declare is a programming error.
func (r *Record) Offset(field string) uint32 {
	off, ok := r.Info.Offsets[field]
	if !ok {
		panic(fmt.Sprintf("layout: record %s has no field %q", r.Name, field))
	}
	return off
}

func (r *Record) Size() uint32  { return r.Info.Size }
func (r *Record) Align() uint32 { return r.Info.Align }

// Fields returns the declared field names in order.
func (r *Record) Fields() []string {
	rec := r.Type.Kind.(*wit.Record)
	names := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		names[i] = f.Name
	}
	return names
}

// List field names shared by every {pointer, count} pair.
const (
	ListItems  = "pItems"
	ListLength = "nLength"
)

// Fixed character array sizes in the startup record.
const (
	ErrorBufferSize = 1024
	MaxPath         = 260
)

var calc = NewCalculator()

func ptr(name string) wit.Field       { return wit.Field{Name: name, Type: wit.U32{}} }
func i32(name string) wit.Field       { return wit.Field{Name: name, Type: wit.S32{}} }
func f32(name string) wit.Field       { return wit.Field{Name: name, Type: wit.F32{}} }
func embed(name string, r *Record) wit.Field {
	return wit.Field{Name: name, Type: r.Type}
}

func chars(name string, n int) wit.Field {
	types := make([]wit.Type, n)
	for i := range types {
		types[i] = wit.U8{}
	}
	return wit.Field{Name: name, Type: &wit.TypeDef{Kind: &wit.Tuple{Types: types}}}
}

func define(name string, fields ...wit.Field) *Record {
	typeName := name
	td := &wit.TypeDef{
		Name: &typeName,
		Kind: &wit.Record{Fields: fields},
	}
	return &Record{
		Name: name,
		Type: td,
		Info: calc.Calculate(td),
	}
}

func list(name string) *Record {
	return define(name, ptr(ListItems), i32(ListLength))
}

// Lists.
var (
	PhraseList           = list("SaliencePhraseList")
	AlternateThemeList   = list("SalienceAlternateThemeList")
	TopicList            = list("SalienceTopicList")
	ThemeList            = list("SalienceThemeList")
	FacetList            = list("SalienceFacetList")
	SentimentPhraseList  = list("SalienceSentimentPhraseList")
	MentionList          = list("SalienceMentionList")
	EntityList           = list("SalienceEntityList")
	CollectionEntityList = list("SalienceCollectionEntityList")
	RelationList         = list("SalienceRelationList")
	OpinionList          = list("SalienceOpinionList")
	IntentionList        = list("SalienceIntentionList")
	TokenList            = list("SalienceTokenList")
)

var Phrase = define("SaliencePhrase",
	ptr("acText"),
	i32("nDocument"),
	i32("nSentence"),
	i32("nWord"),
	i32("nLength"),
	i32("nByte"),
	i32("nByteLength"),
	i32("nIsNegated"),
	ptr("acNegator"),
	i32("nType"),
	i32("nSection"),
	i32("nRow"),
	i32("nColumn"),
)

var AlternateTheme = define("SalienceAlternateTheme",
	ptr("acAlternateTheme"),
	f32("fScore"),
)

var Topic = define("SalienceTopic",
	ptr("acTopic"),
	i32("nHits"),
	f32("fScore"),
	f32("fSentiment"),
	ptr("acAdditional"),
	i32("nType"),
	ptr("pChildren"), // SalienceTopicList*, may be null
	embed("oEntities", EntityList),
)

var Theme = define("SalienceTheme",
	ptr("acTheme"),
	ptr("acStemmedTheme"),
	ptr("acNormalizedTheme"),
	i32("nThemeType"),
	f32("fScore"),
	f32("fSentiment"),
	i32("nEvidence"),
	i32("nAbout"),
	ptr("acSummary"),
	embed("oMentions", PhraseList),
	embed("oTopics", TopicList),
	embed("oAlternateThemes", AlternateThemeList),
	embed("oChildMentions", PhraseList),
	embed("oRelatedMentions", PhraseList),
)

var Attribute = define("SalienceAttribute",
	ptr("acAttribute"),
	i32("nCount"),
	i32("nPositiveCount"),
	i32("nNegativeCount"),
	i32("nNeutralCount"),
	embed("oMentions", PhraseList),
	embed("oPositiveMentions", PhraseList),
	embed("oNegativeMentions", PhraseList),
	embed("oNeutralMentions", PhraseList),
)

var Facet = define("SalienceFacet",
	ptr("acFacet"),
	ptr("acSubFacetList"),
	i32("nCount"),
	i32("nPositiveCount"),
	i32("nNegativeCount"),
	i32("nNeutralCount"),
	ptr("pAttributes"),
	i32("nSubjectLength"), // attribute count
	embed("oMentions", PhraseList),
	embed("oPositiveMentions", PhraseList),
	embed("oNegativeMentions", PhraseList),
	embed("oNeutralMentions", PhraseList),
)

var SentimentPhrase = define("SalienceSentimentPhrase",
	embed("oPhrase", Phrase),
	f32("fScore"),
	i32("nType"),
	ptr("acSource"),
	i32("nModified"),
	embed("oSupportingPhrases", PhraseList),
)

var SentimentModel = define("SalienceSentimentModel",
	i32("nBest"),
	f32("fPositive"),
	f32("fNegative"),
	f32("fMixed"),
	f32("fNeutral"),
	ptr("acModelName"),
)

var SentimentResult = define("SalienceSentimentResult",
	f32("fScore"),
	embed("oPhrases", SentimentPhraseList),
	ptr("pModel"),
	i32("nModelCount"),
	embed("oEmotions", TopicList),
)

var Mention = define("SalienceMention",
	embed("oPhrase", Phrase),
	i32("nType"),
	f32("fScore"),
)

var Entity = define("SalienceEntity",
	ptr("acNormalizedForm"),
	ptr("acType"),
	ptr("acLabel"),
	f32("fSentimentScore"),
	i32("nEvidence"),
	i32("nConfident"),
	i32("nAbout"),
	ptr("acSummary"),
	embed("oMentions", MentionList),
	embed("oThemes", ThemeList),
	embed("oSentimentPhrases", SentimentPhraseList),
	embed("oTopics", TopicList),
)

var CollectionEntity = define("SalienceCollectionEntity",
	ptr("acNormalizedForm"),
	ptr("acType"),
	ptr("acLabel"),
	i32("nCount"),
	i32("nPositiveCount"),
	i32("nNegativeCount"),
	i32("nNeutralCount"),
	embed("oMentions", PhraseList),
)

var Relation = define("SalienceRelation",
	embed("oEntities", EntityList),
	ptr("acType"),
	f32("fConfidence"),
	ptr("acExtra"),
)

var Opinion = define("SalienceOpinion",
	embed("oSpeaker", Entity),
	embed("oEntityTopic", Entity),
	embed("oThemeTopic", Theme),
	ptr("acQuotation"),
	f32("fSentiment"),
	i32("nHasTheme"),
)

var Word = define("SalienceWord",
	ptr("acToken"),
	ptr("acPOSTag"),
	ptr("acStem"),
	i32("nInvert"),
	f32("fSentiment"),
	i32("nSentimentType"),
	ptr("acEntityType"),
	i32("nId"),
	i32("nSecondaryId"),
	i32("nPostFixed"),
)

var Chunk = define("SalienceChunk",
	ptr("pTokens"),
	i32("nLength"),
	ptr("acLabel"),
	i32("nSentence"),
	f32("fSentiment"),
)

var Intention = define("SalienceIntention",
	ptr("acWhat"),
	ptr("acWho"),
	ptr("acEvidence"),
	ptr("acType"),
	embed("oWhat", Chunk),
	embed("oWho", Chunk),
	embed("oEvidence", Chunk),
)

var Token = define("SalienceToken",
	ptr("acToken"),
	i32("nCount"),
)

var Sentence = define("SalienceSentence",
	ptr("pTokens"),
	ptr("pChunks"),
	i32("nLength"),
	i32("nChunkCount"),
	i32("nSubjective"),
	i32("nPolar"),
	i32("nImperative"),
	i32("nSummaryRank"),
	ptr("acText"),
	f32("fSentiment"),
)

var Document = define("SalienceDocument",
	i32("nSentenceCount"),
	ptr("pSentences"),
)

var RowList = define("SalienceRowList",
	i32("nRowCount"),
	ptr("pRows"), // SalienceDocument array
)

var Section = define("SalienceSection",
	i32("nWordCount"),
	i32("nSentenceCount"),
	i32("nObjectiveCount"),
	i32("nSubjectiveCount"),
	i32("nParsedCount"),
	embed("oTermFrequency", TokenList),
	embed("oTaggedTermFrequency", TokenList),
	embed("oBiGrams", TokenList),
	embed("oTaggedBiGrams", TokenList),
	embed("oTriGrams", TokenList),
	embed("oTaggedTriGrams", TokenList),
	embed("oQuadGrams", TokenList),
	embed("oNegators", TokenList),
	embed("oIntensifiers", TokenList),
	ptr("pSentences"), // nSentenceCount entries
	ptr("acInternalRepresentation"),
	ptr("acFingerprint"),
	embed("oRows", RowList),
	ptr("acHeader"),
)

var DocumentDetails = define("SalienceDocumentDetails",
	i32("nSectionCount"),
	ptr("oSections"),
)

var CollectionDetails = define("SalienceCollectionDetails",
	i32("nSize"),
)

var SummaryResult = define("SalienceSummaryResult",
	ptr("acSummary"),
	ptr("pDocument"),
	ptr("acAlternateSummary"),
	ptr("pAlternateDocument"),
)

var CollectionDocument = define("SalienceCollectionDocument",
	ptr("acIdentifier"),
	i32("nIsText"),
	i32("nSplitByLine"),
	ptr("acText"),
)

var Collection = define("SalienceCollection",
	ptr("acName"),
	i32("nSize"),
	ptr("pDocuments"),
)

var Startup = define("SalienceStartup",
	chars("acError", ErrorBufferSize),
	i32("nStartupLog"),
	ptr("acLogPath"),
	chars("acDataDirectory", MaxPath),
	chars("acUserDirectory", MaxPath),
	i32("nMode"),
)

var Option = define("SalienceOption",
	i32("nOption"),
	ptr("acValue"),
	i32("nValue"),
	f32("fValue"),
)
