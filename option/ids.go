package option

// ID is a numeric engine option id. Ids are grouped by subsystem in blocks
// of a thousand.
type ID int

// Text preparation.
const (
	TextThreshold           ID = 1000
	CalculateListsAndTables ID = 1001
	ExecutionTimeout        ID = 1002
	FailOnLongSentences     ID = 1003
	UserDirectory           ID = 1004
	ConceptSlop             ID = 1005
	ReinitializeThemes      ID = 1008
	ProcessAsOneSentence    ID = 1009
	UseSharedMemory         ID = 1010
	ProcessComplexStems     ID = 1012
	FlattenAllUpperCase     ID = 1013
	ContentHTML             ID = 1014
	AlternateForms          ID = 1015
	UseChainer              ID = 1016
	StemDocDetails          ID = 1500
)

// Concept topics.
const (
	MaxConceptHits       ID = 2000
	MinConceptScore      ID = 2001
	ConceptWindowSize    ID = 2002
	ConceptTopicJump     ID = 2003
	NongrammaticalTopics ID = 2004
	ConceptTopics        ID = 2005
)

// Entities.
const (
	RequiredEntities        ID = 3000
	AnaphoraResolution      ID = 3001
	ModelSensitivity        ID = 3002
	EntityThreshold         ID = 3003
	EntitySummaryLength     ID = 3004
	EntityOverlap           ID = 3005
	EntityList              ID = 3006
	SentimentThemeOverlap   ID = 3007
	EntityTopics            ID = 3008
	StemUserEntityContent   ID = 3009
	EntityUserDirectoryOnly ID = 3010
)

// Sentiment.
const (
	SentimentDictionary        ID = 4000
	AddSentimentModel          ID = 4001
	NeutralSentimentUpperBound ID = 4002
	NeutralSentimentLowerBound ID = 4003
	UsePolarityModel           ID = 4004
	SetAllSentimentPhrases     ID = 4005
	EmphaticModifier           ID = 4006
	SuperlativeModifier        ID = 4007
	ChainEntitySentiment       ID = 4008
)

// Query topics.
const (
	TopicStemming      ID = 5000
	TopicList          ID = 5001
	MaxTopicLength     ID = 5002
	TopicIgnoreAccents ID = 5003
)

// Collections.
const (
	CollectionResultSize   ID = 6000
	UseSemantics           ID = 6001
	MaxCollectionSize      ID = 6003
	ReturnAllThemeMentions ID = 6004
	StemFacets             ID = 6008
)

// Classification, themes and categories.
const (
	ClassificationThreshold ID = 6500
	ClassificationModel     ID = 6501
	ThemeTopics             ID = 7000
	ExplainCategories       ID = 8000
)

// Summaries.
const (
	SummaryDelimiter               ID = 9001
	SummaryQuotesIntact            ID = 9002
	SummaryMinSentenceLength       ID = 9003
	SummaryAllowInitialConjunction ID = 9004
	SummaryEarlySentenceCount      ID = 9005
	SummaryEarlySentenceBonus      ID = 9006
	SummaryPronounPenalty          ID = 9007
	SummaryIdealLength             ID = 9008
	SummaryLengthPenalty           ID = 9009
	SummaryDiversity               ID = 9010
)

// Defaults the engine applies to entity fetches.
const (
	DefaultEntityThreshold     = 55
	DefaultEntitySummaryLength = 2
)
