package salience

// NoPosition is the first position reported for an entity without mentions.
const NoPosition = -1

// Untagged is the entity id carried by tokens outside any tagged span.
const Untagged = -1

// SentimentType classifies how a token's sentiment score was produced.
type SentimentType int

const (
	SentimentNone       SentimentType = -1
	SentimentStop       SentimentType = 0
	SentimentHandScored SentimentType = 1
	SentimentPossible   SentimentType = 2
	SentimentInternal   SentimentType = 3
)

// Phrase is a span of the source text with its position.
type Phrase struct {
	Text       string
	Document   int
	Sentence   int
	Word       int
	Length     int
	Byte       int
	ByteLength int
	Negated    bool
	// Negator is empty unless Negated is set.
	Negator string
	Type    int
	Section int
	Row     int
	Column  int
}

// Frequency is one entry of an n-gram frequency table.
type Frequency struct {
	Term  string
	Count int
}

// Token is one word of a processed document with its tags.
type Token struct {
	Text          string
	POSTag        string
	Stem          string
	Invert        bool
	Sentiment     float32
	SentimentType SentimentType
	EntityType    string
	ID            int
	SecondaryID   int
	// PostFixed tokens attach to the previous token without a space.
	PostFixed bool
}

// Tagged reports whether the token belongs to an entity span.
func (t Token) Tagged() bool {
	return t.ID != Untagged
}

// Chunk is a labeled group of tokens within a sentence.
type Chunk struct {
	Label     string
	Sentence  int
	Sentiment float32
	Tokens    []Token
}

type Sentence struct {
	Tokens      []Token
	Chunks      []Chunk
	Subjective  bool
	Polar       bool
	Imperative  bool
	SummaryRank int
	Text        string
	Sentiment   float32
}

// Document is an ordered list of sentences.
type Document struct {
	Sentences []Sentence
}

// Section holds the details of one section of a prepared document.
type Section struct {
	InternalRepresentation string
	Fingerprint            string
	Header                 string

	WordCount       int
	SentenceCount   int
	ObjectiveCount  int
	SubjectiveCount int
	ParsedCount     int

	TermFrequency       []Frequency
	TaggedTermFrequency []Frequency
	BiGrams             []Frequency
	TaggedBiGrams       []Frequency
	TriGrams            []Frequency
	TaggedTriGrams      []Frequency
	QuadGrams           []Frequency
	Negators            []Frequency
	Intensifiers        []Frequency

	Sentences []Sentence
	// Chunks collects the chunks of every sentence in order.
	Chunks []Chunk
	// Rows holds table rows found in the section when list and table
	// detection is enabled.
	Rows []Document
}

type DocumentDetails struct {
	Sections []Section
}

type CollectionDetails struct {
	Size int
}

type AlternateTheme struct {
	Theme string
	Score float32
}

type Theme struct {
	Theme           string
	Stemmed         string
	Normalized      string
	Type            int
	Score           float32
	Sentiment       float32
	Evidence        int
	About           bool
	Summary         string
	Mentions        []Phrase
	Topics          []Topic
	AlternateThemes []AlternateTheme
	ChildMentions   []Phrase
	RelatedMentions []Phrase
}

type Mention struct {
	Phrase Phrase
	Type   int
	Score  float32
}

type SentimentPhrase struct {
	Phrase            Phrase
	Source            string
	Score             float32
	Type              int
	Modified          int
	SupportingPhrases []Phrase
}

// ModelSentiment is the score a sentiment model assigned to the document.
type ModelSentiment struct {
	Name     string
	Best     int
	Positive float32
	Negative float32
	Mixed    float32
	Neutral  float32
}

type Sentiment struct {
	Score    float32
	Phrases  []SentimentPhrase
	Models   []ModelSentiment
	Emotions []Topic
}

type Entity struct {
	NormalizedForm string
	Type           string
	Label          string
	SentimentScore float32
	Evidence       int
	Confident      int
	About          int
	Summary        string
	// Count is the number of mentions.
	Count int
	// FirstPos is the word offset of the first mention, or NoPosition.
	FirstPos         int
	Mentions         []Mention
	Themes           []Theme
	SentimentPhrases []SentimentPhrase
	Topics           []Topic
}

type CollectionEntity struct {
	NormalizedForm string
	Type           string
	Label          string
	Count          int
	PositiveCount  int
	NegativeCount  int
	NeutralCount   int
	Mentions       []Phrase
}

type Attribute struct {
	Attribute        string
	Count            int
	PositiveCount    int
	NegativeCount    int
	NeutralCount     int
	Mentions         []Phrase
	PositiveMentions []Phrase
	NegativeMentions []Phrase
	NeutralMentions  []Phrase
}

type Facet struct {
	Facet            string
	SubFacets        string
	Count            int
	PositiveCount    int
	NegativeCount    int
	NeutralCount     int
	Attributes       []Attribute
	Mentions         []Phrase
	PositiveMentions []Phrase
	NegativeMentions []Phrase
	NeutralMentions  []Phrase
}

// Topic is a query, concept, class or category match. Children form a
// tree; Documents is only populated for collection topics.
type Topic struct {
	Topic     string
	Hits      int
	Score     float32
	Sentiment float32
	Type      int
	Summary   string
	Documents []string
	Children  []Topic
	Entities  []Entity
}

// Relation links entities found in the same fetch.
type Relation struct {
	Score    float32
	Label    string
	Extra    string
	Entities []Entity
}

// Opinion is a quotation attributed to a speaker. Exactly one of
// EntityTopic and ThemeTopic is set.
type Opinion struct {
	Speaker     Entity
	EntityTopic *Entity
	ThemeTopic  *Theme
	Quotation   string
	Sentiment   float32
}

// ThemeOpinion reports whether the opinion is about a theme.
func (o Opinion) ThemeOpinion() bool {
	return o.ThemeTopic != nil
}

type Intention struct {
	What          string
	Who           string
	Evidence      string
	Type          string
	WhatChunk     Chunk
	WhoChunk      Chunk
	EvidenceChunk Chunk
}

type Summary struct {
	Summary            string
	Sentences          []Sentence
	AlternateSummary   string
	AlternateSentences []Sentence
}

// CollectionDocument is one input document of a collection.
type CollectionDocument struct {
	Identifier  string
	Text        string
	IsText      bool
	SplitByLine bool
}
