package config

import "time"

// Extraction limits
const (
	// MaxTitleLength bounds the title of an extracted record (characters)
	MaxTitleLength = 200

	// MaxTextLength bounds the text of an extracted record (characters)
	MaxTextLength = 4000

	// MinChunkLength is the length a text chunk must exceed to be kept
	MinChunkLength = 30

	// MinFallbackLength is the length raw page text must exceed for the fallback path
	MinFallbackLength = 100

	// MinContainerHeight is the estimated pixel height a content container must exceed
	MinContainerHeight = 150
)

// Video page timing
const (
	// VideoWaitTimeout bounds the wait for video metadata elements to appear
	VideoWaitTimeout = 3 * time.Second

	// VideoPollInterval is the interval between element checks
	VideoPollInterval = 100 * time.Millisecond

	// ExpandDelay is the fixed wait after clicking a "show more" affordance
	ExpandDelay = 500 * time.Millisecond
)

// Persistence limits
const (
	// MaxItemTitleLength is the storage limit for item titles
	MaxItemTitleLength = 255
)

// Request body limits
const (
	// JSONBodyLimit caps JSON request bodies on regular API routes
	JSONBodyLimit = 10 << 10

	// SnapshotBodyLimit caps request bodies that carry an HTML snapshot
	SnapshotBodyLimit = 2 << 20
)

// Defaults
const (
	DefaultPort              = "3000"
	DefaultSummaryPort       = "8080"
	DefaultSummarizerURL     = "http://localhost:8080/scrape"
	DefaultSummarizerTimeout = 120 * time.Second
	DefaultTokenTTL          = time.Hour
	DefaultDatabasePath      = "skimr.db"
	DefaultFrontendURL       = "http://localhost:5173"
	DefaultRateLimitMax      = 100
	DefaultRateLimitWindow   = 15 * time.Minute
	DefaultKafkaTopic        = "summary-items"
	DefaultKafkaGroupID      = "skimr-archive"
	DefaultS3Region          = "us-east-1"
	DefaultLLMBackend        = "openai"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultCohereModel       = "command-r"
	DefaultLogLevel          = "info"
)
