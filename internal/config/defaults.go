package config

import "runtime"

const (
	defaultConfigPath       = "~/.config/acbfe/config.toml"
	defaultLanguage         = "en"
	defaultReadingDirection = "LTR"
	defaultTmpfsDir         = "/dev/shm"
	defaultUnrar            = "unrar"
	defaultSevenZip         = "7z"
	defaultKumiko           = "kumiko"
	defaultFcList           = "fc-list"
	defaultTesseractLang    = "eng"
	defaultFramesColor      = "#000000"
	defaultTextLayersColor  = "#FF0000"
	defaultResizeFilter     = "ANTIALIAS"
	defaultLibraryDBPath    = "~/.local/share/acbfe/library.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogDir           = "~/.local/share/acbfe/logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Editor: Editor{
			DefaultLanguage:  defaultLanguage,
			ReadingDirection: defaultReadingDirection,
			Snap:             true,
		},
		Workspace: Workspace{
			TmpfsDir: defaultTmpfsDir,
		},
		Tools: Tools{
			Unrar:         defaultUnrar,
			SevenZip:      defaultSevenZip,
			Kumiko:        defaultKumiko,
			FcList:        defaultFcList,
			TesseractLang: defaultTesseractLang,
		},
		Colors: Colors{
			Frames:     defaultFramesColor,
			TextLayers: defaultTextLayersColor,
		},
		Convert: Convert{
			Workers:       runtime.NumCPU(),
			DefaultFilter: defaultResizeFilter,
		},
		Library: Library{
			DBPath: defaultLibraryDBPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
