package option

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/salience-go/errors"
)

// Def describes one catalogued option.
type Def struct {
	Name  string
	Group string
	ID    ID
	Kind  Kind
}

var catalogue = []Def{
	{"TextThreshold", "text", TextThreshold, KindInt},
	{"CalculateListsAndTables", "text", CalculateListsAndTables, KindBool},
	{"ExecutionTimeout", "text", ExecutionTimeout, KindInt},
	{"FailOnLongSentences", "text", FailOnLongSentences, KindBool},
	{"UserDirectory", "text", UserDirectory, KindText},
	{"ConceptSlop", "text", ConceptSlop, KindFloat},
	{"ReinitializeThemes", "text", ReinitializeThemes, KindInt},
	{"ProcessAsOneSentence", "text", ProcessAsOneSentence, KindBool},
	{"UseSharedMemory", "text", UseSharedMemory, KindBool},
	{"ProcessComplexStems", "text", ProcessComplexStems, KindBool},
	{"FlattenAllUpperCase", "text", FlattenAllUpperCase, KindBool},
	{"ContentHTML", "text", ContentHTML, KindBool},
	{"AlternateForms", "text", AlternateForms, KindBool},
	{"UseChainer", "text", UseChainer, KindBool},
	{"StemDocDetails", "text", StemDocDetails, KindBool},

	{"MaxConceptHits", "concept", MaxConceptHits, KindInt},
	{"MinConceptScore", "concept", MinConceptScore, KindFloat},
	{"ConceptWindowSize", "concept", ConceptWindowSize, KindInt},
	{"ConceptTopicJump", "concept", ConceptTopicJump, KindInt},
	{"NongrammaticalTopics", "concept", NongrammaticalTopics, KindBool},
	{"ConceptTopics", "concept", ConceptTopics, KindText},

	{"RequiredEntities", "entity", RequiredEntities, KindText},
	{"AnaphoraResolution", "entity", AnaphoraResolution, KindBool},
	{"ModelSensitivity", "entity", ModelSensitivity, KindFloat},
	{"EntityThreshold", "entity", EntityThreshold, KindInt},
	{"EntitySummaryLength", "entity", EntitySummaryLength, KindInt},
	{"EntityOverlap", "entity", EntityOverlap, KindBool},
	{"EntityList", "entity", EntityList, KindText},
	{"SentimentThemeOverlap", "entity", SentimentThemeOverlap, KindBool},
	{"EntityTopics", "entity", EntityTopics, KindBool},
	{"StemUserEntityContent", "entity", StemUserEntityContent, KindBool},
	{"EntityUserDirectoryOnly", "entity", EntityUserDirectoryOnly, KindBool},

	{"SentimentDictionary", "sentiment", SentimentDictionary, KindTextFlag},
	{"AddSentimentModel", "sentiment", AddSentimentModel, KindText},
	{"NeutralSentimentUpperBound", "sentiment", NeutralSentimentUpperBound, KindFloat},
	{"NeutralSentimentLowerBound", "sentiment", NeutralSentimentLowerBound, KindFloat},
	{"UsePolarityModel", "sentiment", UsePolarityModel, KindBool},
	{"SetAllSentimentPhrases", "sentiment", SetAllSentimentPhrases, KindBool},
	{"EmphaticModifier", "sentiment", EmphaticModifier, KindFloat},
	{"SuperlativeModifier", "sentiment", SuperlativeModifier, KindFloat},
	{"ChainEntitySentiment", "sentiment", ChainEntitySentiment, KindBool},

	{"TopicStemming", "topic", TopicStemming, KindBool},
	{"TopicList", "topic", TopicList, KindText},
	{"MaxTopicLength", "topic", MaxTopicLength, KindInt},
	{"TopicIgnoreAccents", "topic", TopicIgnoreAccents, KindBool},

	{"CollectionResultSize", "collection", CollectionResultSize, KindInt},
	{"UseSemantics", "collection", UseSemantics, KindBool},
	{"MaxCollectionSize", "collection", MaxCollectionSize, KindInt},
	{"ReturnAllThemeMentions", "collection", ReturnAllThemeMentions, KindBool},
	{"StemFacets", "collection", StemFacets, KindBool},

	{"ClassificationThreshold", "classification", ClassificationThreshold, KindInt},
	{"ClassificationModel", "classification", ClassificationModel, KindTextFlag},
	{"ThemeTopics", "theme", ThemeTopics, KindBool},
	{"ExplainCategories", "category", ExplainCategories, KindBool},

	{"SummaryDelimiter", "summary", SummaryDelimiter, KindText},
	{"SummaryQuotesIntact", "summary", SummaryQuotesIntact, KindBool},
	{"SummaryMinSentenceLength", "summary", SummaryMinSentenceLength, KindInt},
	{"SummaryAllowInitialConjunction", "summary", SummaryAllowInitialConjunction, KindBool},
	{"SummaryEarlySentenceCount", "summary", SummaryEarlySentenceCount, KindInt},
	{"SummaryEarlySentenceBonus", "summary", SummaryEarlySentenceBonus, KindFloat},
	{"SummaryPronounPenalty", "summary", SummaryPronounPenalty, KindFloat},
	{"SummaryIdealLength", "summary", SummaryIdealLength, KindInt},
	{"SummaryLengthPenalty", "summary", SummaryLengthPenalty, KindFloat},
	{"SummaryDiversity", "summary", SummaryDiversity, KindFloat},
}

var (
	byID   = make(map[ID]Def, len(catalogue))
	byName = make(map[string]Def, len(catalogue))
)

func init() {
	for _, d := range catalogue {
		byID[d.ID] = d
		byName[strings.ToLower(d.Name)] = d
	}
}

// Lookup returns the catalogue entry for id.
func Lookup(id ID) (Def, bool) {
	d, ok := byID[id]
	return d, ok
}

// ByName finds an option by name, ignoring case.
func ByName(name string) (Def, bool) {
	d, ok := byName[strings.ToLower(name)]
	return d, ok
}

// All returns the catalogue ordered by id.
func All() []Def {
	out := append([]Def(nil), catalogue...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (id ID) String() string {
	if d, ok := byID[id]; ok {
		return d.Name
	}
	return "option#" + strconv.Itoa(int(id))
}

// Check validates v against the catalogue. Ids outside the catalogue are
// passed through for the engine to judge.
func Check(id ID, v Value) error {
	if !v.IsValid() {
		return errors.New(errors.PhaseOption, errors.KindInvalidInput).
			Option(int(id)).
			Detail("no value for option %s", id).
			Build()
	}
	d, ok := byID[id]
	if !ok || d.Kind == v.Kind() {
		return nil
	}
	return errors.New(errors.PhaseOption, errors.KindTypeMismatch).
		Option(int(id)).
		Value(v.String()).
		Detail("option %s takes a %s value, got %s", d.Name, d.Kind, v.Kind()).
		Build()
}
