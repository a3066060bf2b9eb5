package config

const (
	defaultConfigPath      = "~/.config/reelwrap/config.toml"
	defaultDiaryPath       = "diary.csv"
	defaultCacheFile       = "tmdb_cache.csv"
	defaultSQLiteCacheFile = "tmdb_cache.db"
	defaultTMDBBaseURL     = "https://api.themoviedb.org/3"
	defaultTMDBLanguage    = ""
	defaultRequestDelayMS  = 250
	defaultTimeoutSeconds  = 10
	defaultCacheBackend    = BackendCSV
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogDir          = ""
)

// Cache backend identifiers.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults. Relative paths
// resolve against the working directory, matching how a diary export is
// usually dropped next to the tool.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			RequestDelayMS: defaultRequestDelayMS,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Paths: Paths{
			Diary:     defaultDiaryPath,
			CacheFile: defaultCacheFile,
			LogDir:    defaultLogDir,
		},
		Cache: Cache{
			Backend: defaultCacheBackend,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
