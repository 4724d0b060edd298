package config

// Default returns the repository defaults applied before any file or
// flag values.
func Default() Config {
	return Config{
		Selection: Selection{
			LanguageWeight: 3,
		},
		Lists: Lists{
			Separator: ",",
		},
		Index: Index{
			ChunkSizeMiB: 32,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
