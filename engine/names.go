package engine

// Allocator exports, tried in order.
const (
	simpleAlloc = "malloc"
	simpleFree  = "free"
	CabiRealloc = "cabi_realloc"
)

// Host import carrying status notifications.
const (
	HostModule       = "env"
	StatusCallbackFn = "lxaStatusCallback"
)

// Engine entry points.
const (
	LoadLicense                 = "lxaLoadLicense"
	FreeLicense                 = "lxaFreeLicense"
	FreeString                  = "lxaFreeString"
	OpenSession                 = "lxaOpenSalienceSession"
	CloseSession                = "lxaCloseSalienceSession"
	AddConfiguration            = "lxaAddSalienceConfiguration"
	RemoveConfiguration         = "lxaRemoveSalienceConfiguration"
	PrepareText                 = "lxaPrepareText"
	PrepareTextFromFile         = "lxaPrepareTextFromFile"
	AddSection                  = "lxaAddSection"
	AddSectionFromFile          = "lxaAddSectionFromFile"
	PrepareCollection           = "lxaPrepareCollection"
	PrepareCollectionFromFile   = "lxaPrepareCollectionFromFile"
	GetDocumentDetails          = "lxaGetDocumentDetails"
	GetCollectionDetails        = "lxaGetCollectionDetails"
	GetSummary                  = "lxaGetSummary"
	GetSentiment                = "lxaGetSentiment"
	GetThemes                   = "lxaGetThemes"
	GetNamedEntities            = "lxaGetNamedEntities"
	GetUserDefinedEntities      = "lxaGetUserDefinedEntities"
	GetQueryDefinedTopics       = "lxaGetQueryDefinedTopics"
	GetConceptDefinedTopics     = "lxaGetConceptDefinedTopics"
	GetDocumentClasses          = "lxaGetDocumentClasses"
	GetDocumentCategories       = "lxaGetDocumentCategories"
	ExplainConceptMatches       = "lxaExplainConceptMatches"
	GetNamedEntityRelationships = "lxaGetNamedEntityRelationships"
	GetNamedEntityOpinions      = "lxaGetNamedEntityOpinions"
	GetUserEntityRelationships  = "lxaGetUserEntityRelationships"
	GetUserEntityOpinions       = "lxaGetUserEntityOpinions"
	GetIntentions               = "lxaGetIntentions"
	GetCollectionThemes         = "lxaGetCollectionThemes"
	GetCollectionFacets         = "lxaGetCollectionFacets"
	GetCollectionQueryTopics    = "lxaGetCollectionQueryDefinedTopics"
	GetCollectionConceptTopics  = "lxaGetCollectionConceptDefinedTopics"
	GetCollectionEntities       = "lxaGetCollectionEntities"
	GetCollectionUserEntities   = "lxaGetCollectionUserEntities"
	GetNamedEntityMarkup        = "lxaGetNamedEntityMarkup"
	GetUserEntityMarkup         = "lxaGetUserEntityMarkup"
	GetPOSMarkup                = "lxaGetPOSMarkup"
	GetSentimentMarkup          = "lxaGetSentimentMarkup"
	GetNamedOpinionTaggedText   = "lxaGetNamedOpinionTaggedText"
	GetUserOpinionTaggedText    = "lxaGetUserOpinionTaggedText"
	FreeEntityList              = "lxaFreeEntityList"
	FreeCollectionEntityList    = "lxaFreeCollectionEntityList"
	FreeThemeList               = "lxaFreeThemeList"
	FreeFacetList               = "lxaFreeFacetList"
	FreeRelationList            = "lxaFreeRelationList"
	FreeOpinionList             = "lxaFreeOpinionList"
	FreeSentimentResult         = "lxaFreeSentimentResult"
	FreeDocumentDetails         = "lxaFreeDocumentDetails"
	FreeTopicList               = "lxaFreeTopicList"
	FreeDocument                = "lxaFreeDocument"
	FreePhraseList              = "lxaFreePhraseList"
	FreeSummaryResult           = "lxaFreeSummaryResult"
	FreeIntentionList           = "lxaFreeIntentionList"
	GetDefaultLocation          = "lxaGetDefaultSalienceLocation"
	GetVersion                  = "lxaGetSalienceVersion"
	GetErrorString              = "lxaGetSalienceErrorString"
	GetLastWarnings             = "lxaGetLastWarnings"
	SetOption                   = "lxaSetSalienceOption"
	SetCallback                 = "lxaSetSalienceCallback"
	DumpEnvironment             = "lxaDumpEnvironment"
)

// RequiredExports are the entry points a module must export to host a
// session. Everything else is resolved lazily on first call.
var RequiredExports = []string{
	LoadLicense,
	FreeLicense,
	FreeString,
	OpenSession,
	CloseSession,
	GetErrorString,
	SetOption,
}
