package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/domain/standing"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSheets   = "sheets"
	StoreWorkbook = "workbook"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string

	StoreDriver             string
	SheetsSpreadsheetID     string
	SheetsCredentialsFile   string
	SheetsCredentialsJSON   string
	SheetsFixturesTab       string
	SheetsStandingsTab      string
	SheetsBaselineTab       string
	WorkbookPath            string
	DBURL                   string
	DBDisablePreparedBinary bool

	CacheEnabled bool
	CacheTTL     time.Duration

	LeagueName          string
	SyncTimeZone        string
	SyncDefaultTime     string
	SyncScheduleEnabled bool
	SyncWeekday         time.Weekday
	SyncHour            int

	Feeds                []league.FeedSource
	FeedFallbackURL      string
	FeedTimeout          time.Duration
	FeedFetchConcurrency int
	TeamAliases          map[string]string

	RFUGMSEnabled               bool
	RFUGMSBaseURL               string
	RFUGMSTeamID                string
	RFUGMSClubID                string
	RFUGMSTimeout               time.Duration
	RFUGMSMaxRetries            int
	RFUGMSCircuitEnabled        bool
	RFUGMSCircuitFailureCount   int
	RFUGMSCircuitOpenTimeout    time.Duration
	RFUGMSCircuitHalfOpenMaxReq int

	StandingsBaseline          standing.Baseline
	StandingsHighlightTeam     string
	StandingsLosingBonusMargin int
	StandingsPointsWin         int
	StandingsPointsDraw        int
	StandingsPointsLoss        int

	AdminAllowedEmails []string
	GoogleClientID     string
	GoogleAuthTimeout  time.Duration

	InternalJobToken            string
	QStashEnabled               bool
	QStashBaseURL               string
	QStashToken                 string
	QStashTargetBaseURL         string
	QStashRetries               int
	QStashCircuitEnabled        bool
	QStashCircuitFailureCount   int
	QStashCircuitOpenTimeout    time.Duration
	QStashCircuitHalfOpenMaxReq int

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "club-fixtures-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	// Syncs run on the request path; the write timeout has to cover a full
	// feed download plus the store write.
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "120s"); err != nil {
		return Config{}, err
	}

	loaders := []func(*Config) error{
		loadStore,
		loadCache,
		loadSync,
		loadFeeds,
		loadRFUGMS,
		loadStandings,
		loadAdmin,
		loadQStash,
		loadObservability,
	}
	for _, load := range loaders {
		if err := load(&cfg); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func loadStore(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	switch driver {
	case StoreMemory, StoreSheets, StoreWorkbook, StorePostgres:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s, %s, %s", driver, StoreMemory, StoreSheets, StoreWorkbook, StorePostgres)
	}
	cfg.StoreDriver = driver

	cfg.SheetsSpreadsheetID = strings.TrimSpace(getEnv("SHEETS_SPREADSHEET_ID", ""))
	cfg.SheetsCredentialsFile = strings.TrimSpace(getEnv("SHEETS_CREDENTIALS_FILE", ""))
	cfg.SheetsCredentialsJSON = strings.TrimSpace(getEnv("SHEETS_CREDENTIALS_JSON", ""))
	cfg.SheetsFixturesTab = strings.TrimSpace(getEnv("SHEETS_FIXTURES_TAB", "Fixtures"))
	cfg.SheetsStandingsTab = strings.TrimSpace(getEnv("SHEETS_STANDINGS_TAB", "Standings"))
	cfg.SheetsBaselineTab = strings.TrimSpace(getEnv("SHEETS_BASELINE_TAB", "Standings Baseline"))
	if driver == StoreSheets && cfg.SheetsSpreadsheetID == "" {
		return fmt.Errorf("SHEETS_SPREADSHEET_ID is required when STORE_DRIVER=%s", StoreSheets)
	}

	cfg.WorkbookPath = strings.TrimSpace(getEnv("WORKBOOK_PATH", "data/club-fixtures.xlsx"))
	if driver == StoreWorkbook && cfg.WorkbookPath == "" {
		return fmt.Errorf("WORKBOOK_PATH is required when STORE_DRIVER=%s", StoreWorkbook)
	}

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if driver == StorePostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StorePostgres)
	}
	disablePrepared, err := getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true)
	if err != nil {
		return err
	}
	cfg.DBDisablePreparedBinary = disablePrepared
	return nil
}

func loadCache(cfg *Config) error {
	enabled, err := getEnvAsBool("CACHE_ENABLED", true)
	if err != nil {
		return err
	}
	ttl, err := getEnvAsDuration("CACHE_TTL", "5m")
	if err != nil {
		return err
	}
	cfg.CacheEnabled = enabled
	cfg.CacheTTL = ttl
	return nil
}

func loadSync(cfg *Config) error {
	cfg.LeagueName = strings.TrimSpace(getEnv("LEAGUE_NAME", "Counties 1 Midlands East (South)"))
	cfg.SyncTimeZone = strings.TrimSpace(getEnv("SYNC_TIME_ZONE", "Europe/London"))
	if _, err := time.LoadLocation(cfg.SyncTimeZone); err != nil {
		return fmt.Errorf("parse SYNC_TIME_ZONE: %w", err)
	}
	cfg.SyncDefaultTime = strings.TrimSpace(getEnv("SYNC_DEFAULT_TIME", "15:00"))

	enabled, err := getEnvAsBool("SYNC_SCHEDULE_ENABLED", true)
	if err != nil {
		return err
	}
	cfg.SyncScheduleEnabled = enabled
	cfg.SyncWeekday = parseWeekday(getEnv("SYNC_WEEKDAY", "MONDAY"))

	hour, err := getEnvAsInt("SYNC_HOUR", 6)
	if err != nil {
		return fmt.Errorf("parse SYNC_HOUR: %w", err)
	}
	cfg.SyncHour = min(max(hour, 0), 23)
	return nil
}

func loadFeeds(cfg *Config) error {
	feeds := defaultFeeds()
	if raw := strings.TrimSpace(getEnv("FEED_URLS", "")); raw != "" {
		parsed, err := parseFeeds(raw)
		if err != nil {
			return fmt.Errorf("parse FEED_URLS: %w", err)
		}
		feeds = parsed
	}
	cfg.Feeds = feeds
	cfg.FeedFallbackURL = strings.TrimSpace(getEnv("FEED_FALLBACK_URL", ""))

	timeout, err := getEnvAsDuration("FEED_TIMEOUT", "20s")
	if err != nil {
		return err
	}
	cfg.FeedTimeout = timeout

	concurrency, err := getEnvAsInt("FEED_FETCH_CONCURRENCY", 4)
	if err != nil {
		return fmt.Errorf("parse FEED_FETCH_CONCURRENCY: %w", err)
	}
	if concurrency < 1 {
		return fmt.Errorf("FEED_FETCH_CONCURRENCY must be >= 1")
	}
	cfg.FeedFetchConcurrency = concurrency

	aliases := defaultAliases()
	if raw := strings.TrimSpace(getEnv("TEAM_ALIASES", "")); raw != "" {
		parsed, err := parsePairs(raw)
		if err != nil {
			return fmt.Errorf("parse TEAM_ALIASES: %w", err)
		}
		for k, v := range parsed {
			aliases[k] = v
		}
	}
	cfg.TeamAliases = aliases
	return nil
}

func loadRFUGMS(cfg *Config) error {
	enabled, err := getEnvAsBool("RFU_GMS_ENABLED", true)
	if err != nil {
		return err
	}
	cfg.RFUGMSEnabled = enabled
	cfg.RFUGMSBaseURL = strings.TrimSpace(getEnv("RFU_GMS_BASE_URL", "https://gms.rfu.com/fsiservices2/Competitions.svc/json"))
	cfg.RFUGMSTeamID = strings.TrimSpace(getEnv("RFU_GMS_TEAM_ID", "8763"))
	cfg.RFUGMSClubID = strings.TrimSpace(getEnv("RFU_GMS_CLUB_ID", "589"))
	if enabled && (cfg.RFUGMSBaseURL == "" || cfg.RFUGMSTeamID == "" || cfg.RFUGMSClubID == "") {
		return fmt.Errorf("RFU_GMS_BASE_URL, RFU_GMS_TEAM_ID and RFU_GMS_CLUB_ID are required when RFU_GMS_ENABLED=true")
	}

	if cfg.RFUGMSTimeout, err = getEnvAsDuration("RFU_GMS_TIMEOUT", "20s"); err != nil {
		return err
	}
	retries, err := getEnvAsInt("RFU_GMS_MAX_RETRIES", 1)
	if err != nil {
		return fmt.Errorf("parse RFU_GMS_MAX_RETRIES: %w", err)
	}
	if retries < 0 {
		return fmt.Errorf("RFU_GMS_MAX_RETRIES must be >= 0")
	}
	cfg.RFUGMSMaxRetries = retries

	breaker, err := loadBreaker("RFU_GMS")
	if err != nil {
		return err
	}
	cfg.RFUGMSCircuitEnabled = breaker.enabled
	cfg.RFUGMSCircuitFailureCount = breaker.failureCount
	cfg.RFUGMSCircuitOpenTimeout = breaker.openTimeout
	cfg.RFUGMSCircuitHalfOpenMaxReq = breaker.halfOpenMaxReq
	return nil
}

func loadStandings(cfg *Config) error {
	baseline, err := loadBaseline(getEnv("STANDINGS_BASELINE_FILE", ""))
	if err != nil {
		return err
	}
	cfg.StandingsBaseline = baseline

	defaults := standing.DefaultRules()
	cfg.StandingsHighlightTeam = strings.TrimSpace(getEnv("STANDINGS_HIGHLIGHT_TEAM", defaults.HighlightTeam))

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{key: "STANDINGS_LOSING_BONUS_MARGIN", fallback: defaults.LosingBonusMargin, dst: &cfg.StandingsLosingBonusMargin},
		{key: "STANDINGS_POINTS_WIN", fallback: defaults.Win, dst: &cfg.StandingsPointsWin},
		{key: "STANDINGS_POINTS_DRAW", fallback: defaults.Draw, dst: &cfg.StandingsPointsDraw},
		{key: "STANDINGS_POINTS_LOSS", fallback: defaults.Loss, dst: &cfg.StandingsPointsLoss},
	}
	for _, item := range ints {
		value, err := getEnvAsInt(item.key, item.fallback)
		if err != nil {
			return fmt.Errorf("parse %s: %w", item.key, err)
		}
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", item.key)
		}
		*item.dst = value
	}
	if cfg.StandingsPointsWin < cfg.StandingsPointsDraw || cfg.StandingsPointsDraw < cfg.StandingsPointsLoss {
		return fmt.Errorf("STANDINGS_POINTS_WIN >= STANDINGS_POINTS_DRAW >= STANDINGS_POINTS_LOSS must hold")
	}
	return nil
}

func loadAdmin(cfg *Config) error {
	cfg.AdminAllowedEmails = splitCSV(getEnv("ADMIN_ALLOWED_EMAILS", ""))
	cfg.GoogleClientID = strings.TrimSpace(getEnv("GOOGLE_CLIENT_ID", ""))
	timeout, err := getEnvAsDuration("GOOGLE_AUTH_TIMEOUT", "5s")
	if err != nil {
		return err
	}
	cfg.GoogleAuthTimeout = timeout
	if cfg.AppEnv == EnvProd && len(cfg.AdminAllowedEmails) == 0 {
		return fmt.Errorf("ADMIN_ALLOWED_EMAILS is required when APP_ENV=%s", EnvProd)
	}
	return nil
}

func loadQStash(cfg *Config) error {
	enabled, err := getEnvAsBool("QSTASH_ENABLED", false)
	if err != nil {
		return err
	}
	retries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if retries < 0 {
		return fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	breaker, err := loadBreaker("QSTASH")
	if err != nil {
		return err
	}

	cfg.QStashEnabled = enabled
	cfg.QStashRetries = retries
	cfg.QStashBaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	cfg.QStashToken = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	cfg.QStashTargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	cfg.QStashCircuitEnabled = breaker.enabled
	cfg.QStashCircuitFailureCount = breaker.failureCount
	cfg.QStashCircuitOpenTimeout = breaker.openTimeout
	cfg.QStashCircuitHalfOpenMaxReq = breaker.halfOpenMaxReq

	if enabled {
		if cfg.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	return nil
}

func loadObservability(cfg *Config) error {
	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return err
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if pyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return err
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	return nil
}

// LeagueSettings is the raw league configuration handed to league.New.
func (c Config) LeagueSettings() league.Settings {
	return league.Settings{
		Name:            c.LeagueName,
		TimeZone:        c.SyncTimeZone,
		DefaultTime:     c.SyncDefaultTime,
		Aliases:         c.TeamAliases,
		Feeds:           c.Feeds,
		FallbackFeedURL: c.FeedFallbackURL,
		Rules: standing.Rules{
			Win:               c.StandingsPointsWin,
			Draw:              c.StandingsPointsDraw,
			Loss:              c.StandingsPointsLoss,
			LosingBonusMargin: c.StandingsLosingBonusMargin,
			HighlightTeam:     c.StandingsHighlightTeam,
		},
		Baseline: c.StandingsBaseline,
	}
}

type breakerSettings struct {
	enabled        bool
	failureCount   int
	openTimeout    time.Duration
	halfOpenMaxReq int
}

func loadBreaker(prefix string) (breakerSettings, error) {
	var out breakerSettings
	var err error

	if out.enabled, err = getEnvAsBool(prefix+"_CIRCUIT_ENABLED", true); err != nil {
		return out, err
	}
	if out.failureCount, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if out.failureCount < 1 {
		return out, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	if out.openTimeout, err = getEnvAsDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return out, err
	}
	if out.halfOpenMaxReq, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if out.halfOpenMaxReq < 1 {
		return out, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// parseWeekday accepts English day names in any case; anything else is Monday.
func parseWeekday(v string) time.Weekday {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "SUNDAY":
		return time.Sunday
	case "TUESDAY":
		return time.Tuesday
	case "WEDNESDAY":
		return time.Wednesday
	case "THURSDAY":
		return time.Thursday
	case "FRIDAY":
		return time.Friday
	case "SATURDAY":
		return time.Saturday
	default:
		return time.Monday
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

// getEnvAsDuration parses a positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parsePairs reads "key=value,key=value". Only the first "=" splits, so
// values may contain more.
func parsePairs(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid item %q, expected key=value", item)
		}
		key := strings.TrimSpace(segments[0])
		value := strings.TrimSpace(segments[1])
		if key == "" || value == "" {
			return nil, fmt.Errorf("empty key or value in item %q", item)
		}
		out[key] = value
	}
	return out, nil
}

// parseFeeds keeps the order the feeds were listed in.
func parseFeeds(raw string) ([]league.FeedSource, error) {
	out := make([]league.FeedSource, 0)
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid feed %q, expected team=url", item)
		}
		name := strings.TrimSpace(segments[0])
		feedURL := strings.TrimSpace(segments[1])
		if name == "" || feedURL == "" {
			return nil, fmt.Errorf("empty team or url in feed %q", item)
		}
		out = append(out, league.FeedSource{Name: name, URL: feedURL})
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
