package config

import "subforce/internal/classify"

const (
	defaultLibraryDir     = "~/library"
	defaultLogDir         = "~/.local/share/subforce/logs"
	defaultMediainfoBin   = "mediainfo"
	defaultMkvinfoBin     = "mkvinfo"
	defaultMkvpropeditBin = "mkvpropedit"
	defaultToolTimeout    = 120
	defaultWorkers        = 2
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Classify: Classify{
			AbsoluteElements: classify.DefaultAbsoluteElements,
			RelativeRatio:    classify.DefaultRelativeRatio,
		},
		Tools: Tools{
			Mediainfo:      defaultMediainfoBin,
			Mkvinfo:        defaultMkvinfoBin,
			Mkvpropedit:    defaultMkvpropeditBin,
			TimeoutSeconds: defaultToolTimeout,
		},
		Workflow: Workflow{
			Workers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Thresholds converts the configured cutoffs into engine thresholds.
func (c *Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		AbsoluteElements: c.Classify.AbsoluteElements,
		RelativeRatio:    c.Classify.RelativeRatio,
	}
}
