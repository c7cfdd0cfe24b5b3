package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgents is the pool of User-Agent strings rotated across outbound
	// requests. Per prd001-aggregation R4.2.
	UserAgents []string `json:"user_agents" yaml:"user_agents"`
}

// SearchConfig holds settings for federated search runs.
// Per prd001-aggregation R3.1-R3.6, R4.1-R4.4.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPerSource is the maximum number of records kept per source (default 100).
	MaxPerSource int `json:"max_per_source" yaml:"max_per_source"`

	// EarlyExitDivisor controls when a source stops escalating through
	// fallback term sets: once research-question terms have yielded at least
	// MaxPerSource/EarlyExitDivisor records the source is done (default 3).
	EarlyExitDivisor int `json:"early_exit_divisor" yaml:"early_exit_divisor"`

	// DelayMin and DelayMax bound the jittered politeness delay applied
	// before outbound requests (defaults 1s and 3s).
	DelayMin time.Duration `json:"delay_min" yaml:"delay_min"`
	DelayMax time.Duration `json:"delay_max" yaml:"delay_max"`

	// InterSourceDelay is the maximum jittered stagger between source worker
	// launches when more than one source is queried (default 2s).
	InterSourceDelay time.Duration `json:"inter_source_delay" yaml:"inter_source_delay"`

	// RunTimeout bounds an entire search run; sources still pending at the
	// deadline are recorded as failed (default 5m).
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout"`

	// RatePerSecond is the sustained outbound request rate shared by all
	// workers of one engine (default 2).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`

	// Sources lists the adapter names to query. Empty means every registered
	// adapter.
	Sources []string `json:"sources" yaml:"sources"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// COREAPIKey authenticates against the CORE v3 API. Without it the CORE
	// adapter skips its API technique and goes straight to fallbacks.
	COREAPIKey string `json:"core_api_key,omitempty" yaml:"core_api_key,omitempty"`

	// NCBIAPIKey is an optional E-utilities key that lifts PubMed rate limits.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`

	// OpenAlexEmail is sent as mailto= so OpenAlex routes requests through
	// its polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// MatchConfig holds the scoring constants for artifact matching.
// Per prd002-matching R2.1-R2.6, R3.1. Defaults preserve the calibration the
// strategies were tuned with; change them only with a labeled corpus at hand.
type MatchConfig struct {
	// AcceptThreshold is the minimum confidence for automatic assignment (default 40).
	AcceptThreshold int `json:"accept_threshold" yaml:"accept_threshold"`

	// SequentialConfidence scores a filename whose numeric prefix equals the
	// record's 1-based corpus position (default 98).
	SequentialConfidence int `json:"sequential_confidence" yaml:"sequential_confidence"`

	// IdentifierConfidence scores a record's DOI or arXiv id appearing in the
	// filename stem (default 95).
	IdentifierConfidence int `json:"identifier_confidence" yaml:"identifier_confidence"`

	// LeadingWordBase, LeadingWordStep, and LeadingWordCap parameterize the
	// leading-title-words strategy: min(cap, base + step*matches + topical bonus)
	// (defaults 40, 15, 95).
	LeadingWordBase int `json:"leading_word_base" yaml:"leading_word_base"`
	LeadingWordStep int `json:"leading_word_step" yaml:"leading_word_step"`
	LeadingWordCap  int `json:"leading_word_cap" yaml:"leading_word_cap"`

	// AnyWordBase, AnyWordRatioWeight, AnyWordStep, and AnyWordCap
	// parameterize the significant-words strategy:
	// min(cap, base + ratioWeight*matchedFraction + step*matches + topical bonus)
	// (defaults 30, 30, 5, 85).
	AnyWordBase        int `json:"any_word_base" yaml:"any_word_base"`
	AnyWordRatioWeight int `json:"any_word_ratio_weight" yaml:"any_word_ratio_weight"`
	AnyWordStep        int `json:"any_word_step" yaml:"any_word_step"`
	AnyWordCap         int `json:"any_word_cap" yaml:"any_word_cap"`

	// AuthorYearConfidence scores a first-author surname plus publication
	// year both appearing in the stem (default 80).
	AuthorYearConfidence int `json:"author_year_confidence" yaml:"author_year_confidence"`

	// TopicalKeywords are review-domain words that earn TopicalBonus when one
	// appears in both a record title and an artifact filename. Empty disables
	// the bonus.
	TopicalKeywords []string `json:"topical_keywords,omitempty" yaml:"topical_keywords,omitempty"`

	// TopicalBonus is added inside the strategy caps (default 20).
	TopicalBonus int `json:"topical_bonus" yaml:"topical_bonus"`
}

// StoreConfig holds settings for the review store.
// Per prd003-review-store R1.1.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "review.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error (default "warn").
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json" (default "console").
	Format string `json:"format" yaml:"format"`
}

// Config groups all component configurations.
type Config struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Match  MatchConfig  `json:"match" yaml:"match"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// DefaultUserAgents is the browser pool rotated across scraping requests.
// Four contemporary desktop strings; enough rotation to stay unremarkable
// without maintaining a long list.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
}

// DefaultConfig returns the configuration used when no file or flag overrides it.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    15 * time.Second,
				UserAgents: DefaultUserAgents,
			},
			MaxPerSource:     100,
			EarlyExitDivisor: 3,
			DelayMin:         1 * time.Second,
			DelayMax:         3 * time.Second,
			InterSourceDelay: 2 * time.Second,
			RunTimeout:       5 * time.Minute,
			RatePerSecond:    2,
		},
		Match: MatchConfig{
			AcceptThreshold:      40,
			SequentialConfidence: 98,
			IdentifierConfidence: 95,
			LeadingWordBase:      40,
			LeadingWordStep:      15,
			LeadingWordCap:       95,
			AnyWordBase:          30,
			AnyWordRatioWeight:   30,
			AnyWordStep:          5,
			AnyWordCap:           85,
			AuthorYearConfidence: 80,
			TopicalBonus:         20,
		},
		Store: StoreConfig{
			DBPath: "review.db",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
