package config

// UI holds output preferences
type UI struct {
	Color string `toml:"color"` // "auto" (default), "always", or "never"
}

// Config represents the benv configuration
type Config struct {
	Version     string `toml:"version"`
	ContextsDir string `toml:"contexts_dir"` // Root of the category/config tree (supports ~)
	Shell       string `toml:"shell"`        // Shell used to source activation payloads
	UI          UI     `toml:"ui"`
}
