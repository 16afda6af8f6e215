package config

const (
	defaultStagingDir = "~/Downloads/dataset_temp"
	defaultDatasetDir = "~/dataset"

	defaultImageExtension = ".jpg"
	defaultLabelExtension = ".txt"

	defaultSettleDelayMs     = 500
	defaultStableThresholdMs = 0
	defaultLogLevel          = "info"
	defaultLogFormat         = "auto"
)

// defaultPlatforms is the stock allow-list for collector output. A config
// file with an explicit platforms list replaces it entirely.
var defaultPlatforms = []string{
	"twitter", "instagram", "facebook", "whatsapp",
	"linkedin", "reddit", "discord", "threads",
	"youtube", "snapchat",
}

// defaultIgnorePatterns covers partial-download artifacts browsers and
// collectors leave in the staging directory while a file is still in flight.
func defaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.partial",
		"*.download",
		"*.crdownload",
		".~*",
	}
}

// Default returns a Configuration populated with repository defaults.
func Default() *Configuration {
	platforms := make([]string, len(defaultPlatforms))
	copy(platforms, defaultPlatforms)
	return &Configuration{
		StagingDir:     defaultStagingDir,
		DatasetDir:     defaultDatasetDir,
		Platforms:      platforms,
		ImageExtension: defaultImageExtension,
		LabelExtension: defaultLabelExtension,
		Watch: WatchSettings{
			SettleDelayMs:     defaultSettleDelayMs,
			StableThresholdMs: defaultStableThresholdMs,
			IgnorePatterns:    defaultIgnorePatterns(),
		},
		Log: LogSettings{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
