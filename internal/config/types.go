package config

// Config is the merged jsonwalk configuration: the embedded defaults with an
// optional user file decoded on top.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Walk   WalkConfig   `yaml:"walk"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	Theme  ThemeConfig  `yaml:"theme"`
}

// AppConfig holds the texts used by the CLI help.
type AppConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Usage       string `yaml:"usage"`
}

// WalkConfig holds the traversal defaults.
type WalkConfig struct {
	Order  string `yaml:"order"`  // dfs | bfs
	Format string `yaml:"format"` // input format, auto by default
	Start  string `yaml:"start"`
	Select string `yaml:"select"` // JSONPath
	Filter string `yaml:"filter"` // CEL
	Decode bool   `yaml:"decode"`
	Limit  int    `yaml:"limit"`
	Offset int    `yaml:"offset"`
	Tail   int    `yaml:"tail"`
}

// OutputConfig controls how pairs are rendered.
type OutputConfig struct {
	Format    string `yaml:"format"`     // text | table | ndjson
	PathStyle string `yaml:"path_style"` // dotted | jsonpath
	NoColor   bool   `yaml:"no_color"`
	MaxWidth  int    `yaml:"max_width"` // 0 = terminal width for tables
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Format string `yaml:"format"` // json | console
}

// ThemeConfig holds ANSI codes or hex colors for the rendered output.
type ThemeConfig struct {
	HeaderFG  string `yaml:"header_fg"`
	HeaderBG  string `yaml:"header_bg"`
	Key       string `yaml:"key"`
	Value     string `yaml:"value"`
	Separator string `yaml:"separator"`
}
