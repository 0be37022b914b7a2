package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/pkg/buildinfo"
	"github.com/matzehuels/yamlviz/pkg/cache"
	"github.com/matzehuels/yamlviz/pkg/config"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/fix"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "yamlviz"

	// stdinName is the file argument that reads from standard input.
	stdinName = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty selects config.DefaultPath.
	ConfigPath string

	cfg    config.Config
	loaded bool
	stdin  io.Reader
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), stdin: os.Stdin}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "yamlviz draws YAML documents as trees",
		Long: `yamlviz parses multi-document YAML and draws every document as a tree of
fixed-size boxes: keys, nested mappings and sequences, and scalar values.
Documents that fail to parse are reported with the offending line and can be
repaired with local heuristics or a language-model fixer.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/yamlviz/config.toml)")

	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.fixCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() error {
	if c.loaded {
		return nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg, c.loaded = cfg, true
	return nil
}

// settings returns the loaded configuration, or the defaults before loading.
func (c *CLI) settings() config.Config {
	if !c.loaded {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner and Fixer Factories
// =============================================================================

// openCache opens the configured cache backend. With noCache, or when the
// backend cannot be reached, caching is disabled.
func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cfg := c.settings()
	ch, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "error", err)
		return cache.NewNullCache()
	}
	return ch
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	cfg := c.settings()
	return pipeline.NewRunner(c.openCache(ctx, noCache), cfg.Keyer(), c.Logger)
}

// newFixer builds the fixer chain: local heuristics first, then the remote
// fixer when an API key is configured. Suggestions are cached and only one
// request runs at a time.
func (c *CLI) newFixer(ch cache.Cache, localOnly bool) fix.Fixer {
	cfg := c.settings()
	fixers := []fix.Fixer{fix.Local{}}
	if !localOnly {
		opts := cfg.RemoteOptions()
		opts.Logger = c.Logger
		remote, err := fix.NewRemote(opts)
		if err != nil {
			c.Logger.Debug("remote fixer disabled", "reason", errors.UserMessage(err))
		} else {
			fixers = append(fixers, remote)
		}
	}
	cached := fix.NewCached(fix.Chain(fixers...), ch, cfg.Keyer())
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		cached.TTL = ttl
	}
	return fix.NewGuard(cached)
}

// pipelineOptions layers the flag values over the [layout] config section.
func (c *CLI) pipelineOptions(flags pipeline.Options) pipeline.Options {
	cfg := c.settings()
	opts := cfg.PipelineOptions().Merge(flags)
	opts.Logger = c.Logger
	return opts
}

// =============================================================================
// Input and Paths
// =============================================================================

// readInput reads a file argument, or standard input for "-".
func (c *CLI) readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinName {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", displayName(path))
	}
	return string(data), nil
}

func displayName(path string) string {
	if path == stdinName {
		return "stdin"
	}
	return path
}

// cacheDir returns the directory of the file cache.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.settings().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input paths.
// Known format extensions are stripped from output; without output the
// input name minus its extension is used, or "document" for stdin.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinName || input == "" {
			return "document"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath names the file of one exported document. A single-document
// input gets base.format; otherwise the document index is appended.
func artifactPath(base string, doc, docs int, format string) string {
	if docs == 1 {
		return fmt.Sprintf("%s.%s", base, format)
	}
	return fmt.Sprintf("%s-%d.%s", base, doc, format)
}
