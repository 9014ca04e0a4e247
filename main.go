// Package main provides the entry point for the simplephon CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/simplephon/internal/allophones"
	"github.com/dgnsrekt/simplephon/internal/cache"
	"github.com/dgnsrekt/simplephon/internal/config"
	"github.com/dgnsrekt/simplephon/internal/pipeline"
	"github.com/dgnsrekt/simplephon/internal/render"
	"github.com/muesli/gitcha"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	transcriptExtensions = []string{"*.phon", "*.sampa", "*.txt"}

	configFile        string
	defaultConfigPath string
	text              string
	output            string
	watch             bool
	copyDoc           bool
	noCache           bool

	rootCmd = &cobra.Command{
		Use:   "simplephon [SOURCE|DIR...]",
		Short: "Turn phoneme transcriptions into timed utterances",
		Long: paragraph(
			fmt.Sprintf("\nConvert stressed, syllabified phoneme strings into %s with phone durations.", keyword("acoustic documents")),
		),
		Example: paragraph("simplephon --text \"h@-'l@U\"\nsimplephon -f json words.txt\necho \"'t-o m,a-ma\" | simplephon"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: execute,
	}
)

// source is a named transcription input.
type source struct {
	reader io.ReadCloser
	path   string // empty for stdin and --text
}

// expandArgs replaces directory arguments by the transcription files found
// below them. Files ignored by git are skipped.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if arg == "-" || err != nil || !st.IsDir() {
			out = append(out, arg)
			continue
		}

		ch, err := gitcha.FindFilesExcept(arg, transcriptExtensions, nil)
		if err != nil {
			return nil, fmt.Errorf("unable to search %s: %w", arg, err)
		}
		var found []string
		for res := range ch {
			found = append(found, res.Path)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no transcription files in %s", arg)
		}
		sort.Strings(found)
		log.Debug("found transcription files", "dir", arg, "count", len(found))
		out = append(out, found...)
	}
	return out, nil
}

// sourceFromArg opens a file, or stdin for "-".
func sourceFromArg(arg string) (*source, error) {
	if arg == "-" {
		return &source{reader: os.Stdin}, nil
	}

	st, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", arg)
	}

	r, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	p, err := filepath.Abs(arg)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	return &source{reader: r, path: p}, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// loadSettings reads the configuration after flags have been parsed.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(config.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// flags given on the command line win over SIMPLEPHON_* variables.
	flags := cmd.Flags()
	fromFlags := func(c *config.Config) {
		if flags.Changed("locale") {
			c.Locale = viper.GetString("locale")
		}
		if flags.Changed("inventory") {
			c.Inventory = viper.GetString("inventory")
		}
		if flags.Changed("format") {
			c.Format = viper.GetString("format")
		}
	}

	cfg, err := config.LoadFromViper(fromFlags)
	if err != nil {
		return cfg, err
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// newPipeline builds a pipeline for cfg, with the cache when enabled.
func newPipeline(cfg config.Config) (*pipeline.Pipeline, *allophones.Registry, error) {
	registry, err := allophones.DefaultRegistry()
	if err != nil {
		return nil, nil, err
	}

	var opts []pipeline.Option
	if cfg.Cache.Enabled {
		m, err := cache.NewManager(cfg.Cache.ToCacheConfig())
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithCache(m))
	}

	p, err := pipeline.New(cfg, registry, opts...)
	if err != nil {
		return nil, nil, err
	}
	return p, registry, nil
}

func validateOptions(args []string, format render.Format) error {
	if text != "" && len(args) > 0 {
		return errors.New("cannot use --text together with file arguments")
	}
	if watch {
		if text != "" || len(args) == 0 {
			return errors.New("--watch needs at least one file argument")
		}
		for _, arg := range args {
			if arg == "-" {
				return errors.New("cannot watch stdin")
			}
		}
	}
	if format.Binary() {
		if copyDoc {
			return fmt.Errorf("cannot copy %s output to the clipboard", format)
		}
		if output == "" && term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("refusing to write %s output to a terminal, use --output", format)
		}
	}
	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	// if stdin is a pipe and nothing else was given then use it for input.
	// note that you can also explicitly use a - to read from stdin.
	if len(args) == 0 && text == "" {
		yes, err := stdinIsPipe()
		if err != nil {
			return err
		}
		if !yes {
			return cmd.Help()
		}
		args = []string{"-"}
	}

	args, err = expandArgs(args)
	if err != nil {
		return err
	}
	if err := validateOptions(args, format); err != nil {
		return err
	}

	p, registry, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck

	if watch {
		return watchSources(cmd.Context(), p, registry, cfg.Inventory, args)
	}

	var out []byte
	if text != "" {
		res, err := p.Convert(text)
		if err != nil {
			return err
		}
		out = res.Document
	} else {
		out, err = convertArgs(p, args)
		if err != nil {
			return err
		}
	}
	return emit(out)
}

// convertArgs converts every argument into a single output. Several sources
// render as one XML document, a JSON array or a YAML/MessagePack stream.
func convertArgs(p *pipeline.Pipeline, args []string) ([]byte, error) {
	texts := make([]string, 0, len(args))
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		text, path, err := readSource(arg)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
		paths = append(paths, path)
	}

	res, err := p.ConvertAll(texts)
	if err != nil {
		var serr *pipeline.SourceError
		if errors.As(err, &serr) {
			if path := paths[serr.Index]; path != "" {
				return nil, fmt.Errorf("%s: %w", path, serr.Err)
			}
			return nil, serr.Err
		}
		return nil, err
	}
	log.Debug("converted sources", "count", len(args), "bytes", len(res.Document), "cached", res.Cached)
	return res.Document, nil
}

func readSource(arg string) (string, string, error) {
	src, err := sourceFromArg(arg)
	if err != nil {
		return "", "", err
	}
	defer src.reader.Close() //nolint:errcheck

	b, err := io.ReadAll(src.reader)
	if err != nil {
		return "", "", fmt.Errorf("unable to read from reader: %w", err)
	}
	return string(b), src.path, nil
}

// emit writes a document to --output or stdout and copies it when asked.
func emit(doc []byte) error {
	if output != "" {
		if err := os.WriteFile(output, doc, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("unable to write output: %w", err)
		}
	} else if _, err := os.Stdout.Write(doc); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}

	if copyDoc {
		termenv.Copy(string(doc))
		if err := clipboard.WriteAll(string(doc)); err != nil {
			log.Warn("could not copy to clipboard", "error", err)
		}
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	formats := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		formats = append(formats, string(f))
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", defaultConfigPath))
	rootCmd.PersistentFlags().StringP("locale", "l", "", "locale of the transcription, such as en_US")
	rootCmd.PersistentFlags().StringP("inventory", "i", "", "allophone inventory file (.xml or .yaml)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the document cache")
	rootCmd.Flags().StringP("format", "f", "", "output format ("+strings.Join(formats, ", ")+")")
	rootCmd.Flags().StringVarP(&text, "text", "t", "", "convert this transcription instead of reading a source")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "convert again whenever a source or the inventory changes")
	rootCmd.Flags().BoolVarP(&copyDoc, "copy", "c", false, "also copy the document to the clipboard")

	// Config bindings
	_ = viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
	_ = viper.BindPFlag("inventory", rootCmd.PersistentFlags().Lookup("inventory"))
	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))

	config.SetDefaults()

	rootCmd.AddCommand(configCmd, manCmd, inspectCmd, phonemesCmd, cacheCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, config.AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, config.AppName)}, dirs...)
	}

	if e, err := config.LoadEnv(); err == nil && e.ConfigHome != "" {
		dirs = append([]string{e.ConfigHome}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName(config.AppName)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		defaultConfigPath = used
		return
	}

	defaultConfigPath = filepath.Join(dirs[0], config.AppName+".yml")
}
