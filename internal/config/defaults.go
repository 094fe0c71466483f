package config

// DefaultConfig returns the SDL2 configuration.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			Prefix:        "SDL",
			DebugPrefixes: []string{"SDL_dummy", "SDL_DUMMY"},
			Include: []string{
				"Sint8", "Uint8",
				"Sint16", "Uint16",
				"Sint32", "Uint32",
				"Sint64", "Uint64",
			},
			Exclude: []string{
				"SDL_LogMessageV",
				"SDL_vsscanf",
				"SDL_vsnprintf",
			},
		},
		Emit: EmitConfig{
			Omit: []string{
				"SDL_mutex",
				"SDL_cond",
				"SDL_Thread",
				"SDL_AudioCvt",
				"SDL_SysWMmsg",
				"SDL_Renderer",
				"SDL_Texture",
				"SDL_AudioCVT",
			},
			Constants: map[string]string{
				"SDL_MESSAGEBOX_COLOR_MAX": "5",
			},
		},
		Preamble: PreambleConfig{
			Header:   "SDL.h",
			Cimports: []string{"libc.stdint", "libc.stdio", "libc.stddef"},
			Forward: []string{
				"cdef struct _SDL_iconv_t",
				"cdef struct SDL_BlitMap",
				"ctypedef struct SDL_AudioCVT",
			},
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Filter = mergeFilterConfig(loaded.Filter, defaults.Filter)
	result.Emit = mergeEmitConfig(loaded.Emit, defaults.Emit)
	result.Preamble = mergePreambleConfig(loaded.Preamble, defaults.Preamble)

	// Log level: use loaded if non-empty
	result.Log = defaults.Log
	if loaded.Log.Level != "" {
		result.Log.Level = loaded.Log.Level
	}

	return result
}

func mergeFilterConfig(loaded, defaults FilterConfig) FilterConfig {
	result := FilterConfig{}

	if loaded.Prefix != "" {
		result.Prefix = loaded.Prefix
	} else {
		result.Prefix = defaults.Prefix
	}

	result.DebugPrefixes = mergeList(loaded.DebugPrefixes, defaults.DebugPrefixes)
	result.Include = mergeList(loaded.Include, defaults.Include)
	result.Exclude = mergeList(loaded.Exclude, defaults.Exclude)

	return result
}

func mergeEmitConfig(loaded, defaults EmitConfig) EmitConfig {
	result := EmitConfig{}

	result.Omit = mergeList(loaded.Omit, defaults.Omit)

	if len(loaded.Constants) > 0 {
		result.Constants = loaded.Constants
	} else {
		result.Constants = defaults.Constants
	}

	return result
}

func mergePreambleConfig(loaded, defaults PreambleConfig) PreambleConfig {
	result := PreambleConfig{}

	if loaded.Header != "" {
		result.Header = loaded.Header
	} else {
		result.Header = defaults.Header
	}

	// WithGIL defaults to false, so the loaded value is always taken
	result.WithGIL = loaded.WithGIL

	result.Cimports = mergeList(loaded.Cimports, defaults.Cimports)
	result.Forward = mergeList(loaded.Forward, defaults.Forward)

	return result
}

// mergeList uses the loaded list if provided, otherwise the defaults
func mergeList(loaded, defaults []string) []string {
	if len(loaded) > 0 {
		return loaded
	}
	return defaults
}

// ValidLogLevels lists the valid values for log.level
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// IsValidLogLevel checks if the given level is valid
func IsValidLogLevel(level string) bool {
	for _, valid := range ValidLogLevels {
		if level == valid {
			return true
		}
	}
	return false
}
