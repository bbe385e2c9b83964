package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/jsonwalk/internal/config"
	"github.com/oakwood-commons/jsonwalk/internal/formatter"
	"github.com/oakwood-commons/jsonwalk/internal/limiter"
	"github.com/oakwood-commons/jsonwalk/internal/navigator"
	"github.com/oakwood-commons/jsonwalk/pkg/core"
	"github.com/oakwood-commons/jsonwalk/pkg/loader"
	"github.com/oakwood-commons/jsonwalk/pkg/logger"
	"github.com/oakwood-commons/jsonwalk/pkg/settings"
	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// rootOptions holds the raw flag values. Flags that were not set on the
// command line are filled from the merged config.
type rootOptions struct {
	configFile string
	debug      bool
	quiet      bool
	logFormat  string

	order     string
	format    string
	output    string
	pathStyle string
	filter    string
	selectExp string
	start     string
	decode    bool
	noColor   bool
	maxWidth  int

	limit  int
	offset int
	tail   int

	cfg config.Config
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: settings.CliBinaryName + " - print every scalar of a JSON/YAML document with its path",
		Long:  longHelp(),
		Example: "\n  jsonwalk data.json\n  jsonwalk data.json --order bfs\n" +
			"  cat data.yaml | jsonwalk --output table\n" +
			"  jsonwalk data.json --filter 'kind == \"number\" && value > 1'\n" +
			"  jsonwalk data.json --select '$.items[*]' --path-style jsonpath\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opts.run(cmd, args)
			if errors.Is(err, errShowHelp) {
				return cmd.Help()
			}
			var choiceErr unknownChoiceError
			if errors.As(err, &choiceErr) {
				printChoiceError(cmd.ErrOrStderr(), err)
				return errors.New("invalid arguments")
			}
			return err
		},
	}

	flags := cmd.Flags()
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file (default $XDG_CONFIG_HOME/jsonwalk/config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only; overrides --debug")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log encoding: json|console (default from config)")
	flags.StringVar(&opts.order, "order", "", "traversal order: dfs|bfs (default from config or dfs)")
	flags.StringVarP(&opts.format, "format", "f", "", "input format: auto|json|ndjson|yaml|toml|cbor|jwt")
	flags.StringVarP(&opts.output, "output", "o", "", "output format: text|table|ndjson")
	flags.StringVar(&opts.pathStyle, "path-style", "", "path rendering: dotted|jsonpath")
	flags.StringVar(&opts.filter, "filter", "", "CEL predicate over path, jsonpath, key, depth, value and kind. Example: 'kind == \"number\" && value > 1'")
	flags.StringVar(&opts.selectExp, "select", "", "JSONPath query; each selected node is walked as its own root")
	flags.StringVar(&opts.start, "start", "", "path of the node to start from, dotted (a.0.b) or bracketed ($['a'][0])")
	flags.BoolVar(&opts.decode, "decode", false, "expand string scalars that hold serialized JSON/YAML/JWT before walking")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable color output")
	flags.IntVar(&opts.maxWidth, "width", 0, "table width in columns (default terminal width)")
	flags.IntVar(&opts.limit, "limit", 0, "emit at most N scalars")
	flags.IntVar(&opts.offset, "offset", 0, "skip the first N scalars")
	flags.IntVar(&opts.tail, "tail", 0, "emit only the last N scalars (mutually exclusive with --limit; ignores --offset)")

	cmd.Version = cliVersionString()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(newVersionCmd(), newConfigCmd(opts))
	return cmd
}

// Execute runs the jsonwalk command line.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config, initializes the logger and stores the run settings
// in the command context.
func (o *rootOptions) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ResolvePath(o.configFile, settings.CliBinaryName))
	if err != nil {
		return err
	}
	o.cfg = cfg

	logFormat := cfg.Log.Format
	if cmd.Flags().Changed("log-format") {
		logFormat = o.logFormat
	}
	logFormat, err = parseLogFormatFlag(logFormat)
	if err != nil {
		return err
	}

	run := settings.NewCliParams()
	run.LogFormat = logFormat
	run.IsQuiet = o.quiet
	// Map CLI debug flag to log level: debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
	if o.debug {
		run.MinLogLevel = -1
	}
	if len(args) > 0 {
		run.EntryPointSettings.Path = args[0]
	}

	lgr := logger.Setup(logger.Options{Level: run.EffectiveLogLevel(), Format: logFormat})
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	cmd.SetContext(settings.IntoContext(ctx, run))
	return nil
}

// merge overlays the flags that were set explicitly on top of the config.
func (o *rootOptions) merge(flags *pflag.FlagSet) {
	w := &o.cfg.Walk
	out := &o.cfg.Output
	str := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	num := func(name string, dst *int, v int) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	str("order", &w.Order, o.order)
	str("format", &w.Format, o.format)
	str("filter", &w.Filter, o.filter)
	str("select", &w.Select, o.selectExp)
	str("start", &w.Start, o.start)
	str("output", &out.Format, o.output)
	str("path-style", &out.PathStyle, o.pathStyle)
	num("limit", &w.Limit, o.limit)
	num("offset", &w.Offset, o.offset)
	num("tail", &w.Tail, o.tail)
	num("width", &out.MaxWidth, o.maxWidth)
	if flags.Changed("decode") {
		w.Decode = o.decode
	}
	if flags.Changed("no-color") {
		out.NoColor = o.noColor
	}
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	o.merge(cmd.Flags())
	cfg := o.cfg
	ctx := cmd.Context()
	lgr := *logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	order, err := parseOrderFlag(cfg.Walk.Order)
	if err != nil {
		return err
	}
	format, err := parseFormatFlag(cfg.Walk.Format)
	if err != nil {
		return err
	}
	output, err := parseOutputFlag(cfg.Output.Format)
	if err != nil {
		return err
	}
	pathStyle, err := parsePathStyleFlag(cfg.Output.PathStyle)
	if err != nil {
		return err
	}
	limits := limiter.Config{Limit: cfg.Walk.Limit, Offset: cfg.Walk.Offset, Tail: cfg.Walk.Tail}
	if err := limits.Validate(); err != nil {
		return fmt.Errorf("record limiting error: %w", err)
	}

	engine, err := core.New(
		core.WithOrder(order),
		core.WithFilter(cfg.Walk.Filter),
		core.WithSelect(cfg.Walk.Select),
		core.WithStart(cfg.Walk.Start),
		core.WithLimits(limits),
	)
	if err != nil {
		return err
	}

	root, err := readInput(cmd, args, run.EntryPointSettings, format, lgr)
	if err != nil {
		return err
	}
	if cfg.Walk.Decode {
		root = loader.RecursiveDecode(root)
	}
	shape := navigator.DetectShape(root)
	lgr.V(1).Info("document loaded",
		"shape", string(shape.Kind),
		"length", shape.Length,
		"scalars", shape.Scalars,
		"maxDepth", shape.MaxDepth,
		"fields", shape.Fields,
	)

	out := cmd.OutOrStdout()
	run.NoColor = cfg.Output.NoColor || !colorEnabled(out)
	formatter.SetTableTheme(formatter.TableColors{
		HeaderFG:       formatter.ParseColor(cfg.Theme.HeaderFG),
		HeaderBG:       formatter.ParseColor(cfg.Theme.HeaderBG),
		KeyColor:       formatter.ParseColor(cfg.Theme.Key),
		ValueColor:     formatter.ParseColor(cfg.Theme.Value),
		SeparatorColor: formatter.ParseColor(cfg.Theme.Separator),
	})

	w := formatter.NewWriter(out,
		formatter.WithOutput(output),
		formatter.WithPathStyle(pathStyle),
		formatter.WithNoColor(run.NoColor),
		formatter.WithMaxWidth(outputWidth(out, cfg.Output.MaxWidth)),
	)
	completed, walkErr := engine.Walk(ctx, root, w.Visit)
	if err := w.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if walkErr != nil {
		return walkErr
	}
	if !run.IsQuiet {
		lgr.V(1).Info("done", "printed", w.Count(), "completed", completed)
	}
	return nil
}

// readInput loads the document from the file argument, or from stdin when
// the argument is absent or "-". Empty stdin yields an empty object.
func readInput(cmd *cobra.Command, args []string, entry settings.EntryPointSettings, format loader.Format, lgr logr.Logger) (tree.Node, error) {
	if !entry.FromStdin() {
		path := args[0]
		if format == loader.FormatAuto {
			root, err := loader.LoadFileWithLogger(path, lgr)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
			return root, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		defer f.Close()
		root, err := loader.LoadReader(f, format, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return root, nil
	}

	in := cmd.InOrStdin()
	if len(args) == 0 && !stdinIsPiped(in) {
		return nil, errShowHelp
	}
	lgr.V(1).Info("reading from stdin", "format", string(format))
	root, err := loader.LoadReader(in, format, lgr)
	if errors.Is(err, loader.ErrEmptyInput) {
		lgr.V(1).Info("no input provided; defaulting to empty object")
		return tree.NewObject(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stdin: %w", err)
	}
	return root, nil
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func longHelp() string {
	cfg, err := config.Default()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s is %s.\n\n%s", cfg.App.Name, cfg.App.Description, cfg.App.Usage)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print jsonwalk version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
			return err
		},
	}
}

// newConfigCmd prints the merged config, defaults included.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged jsonwalk configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var data []byte
			if defaults {
				data = config.DefaultConfigYAML()
			} else {
				var err error
				data, err = config.Marshal(opts.cfg)
				if err != nil {
					return err
				}
			}
			_, err := cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the embedded defaults verbatim")
	return cmd
}
