package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jarlens/pkg/acquire"
	"github.com/matzehuels/jarlens/pkg/buildinfo"
	"github.com/matzehuels/jarlens/pkg/config"
	"github.com/matzehuels/jarlens/pkg/extract"
	"github.com/matzehuels/jarlens/pkg/fsutil"
	mavenclient "github.com/matzehuels/jarlens/pkg/integrations/maven"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/pipeline"
	"github.com/matzehuels/jarlens/pkg/resolver"
	"github.com/matzehuels/jarlens/pkg/store"
)

const appName = "jarlens"

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
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	flags globalFlags
}

type globalFlags struct {
	verbose        bool
	configPath     string
	offline        bool
	localRepo      string
	nonInteractive bool
}

// New creates a CLI that reads prompts from stdin and writes results to
// stdout. Logs and status lines go to stderr.
func New(stdin io.Reader, stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "jarlens extracts the Java API of a project's Maven dependencies",
		Long: `jarlens resolves the transitive dependencies of a pom.xml, acquires the
matching jars and extracts classes, methods, fields and their documentation
as JSON.

Jars are looked up in the local repository first. A missing jar is only
downloaded after you choose a strategy and confirm it. Sources and javadoc
sidecars used to enrich the output are fetched from the remote without a
prompt. Set enrich_remote = false (or JARLENS_ENRICH_REMOTE=false) to keep
sidecar lookups local, or use --offline to disable the remote entirely.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.flags.verbose {
				c.Logger.SetLevel(LogDebug)
				installTraceHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default ~/.config/jarlens/config.toml)")
	pf.BoolVar(&c.flags.offline, "offline", false, "never contact the remote repository")
	pf.StringVar(&c.flags.localRepo, "local-repo", "", "local Maven repository root")
	pf.BoolVar(&c.flags.nonInteractive, "non-interactive", false, "never prompt; apply default_strategy to missing artifacts")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.artifactCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and environment, then applies the
// global flags that were set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("offline") {
		cfg.Offline = c.flags.offline
	}
	if flags.Changed("local-repo") {
		cfg.LocalRepository = c.flags.localRepo
	}
	if flags.Changed("non-interactive") {
		cfg.NonInteractive = c.flags.nonInteractive
	}
	return cfg, nil
}

// openStore opens the persistent cache named by cfg.
func (c *CLI) openStore(cfg *config.Config, logger *log.Logger) (*store.Store, error) {
	dir, err := cacheDir(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return store.Open(dir, store.Options{FlushDelay: cfg.FlushDelay, Logger: logger})
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/jarlens/).
func cacheDir(configured string) (string, error) {
	if configured != "" {
		return fsutil.ExpandHome(configured)
	}
	return store.DefaultDir()
}

// =============================================================================
// Session - one fully wired analysis stack
// =============================================================================

type session struct {
	cfg      *config.Config
	store    *store.Store
	resolver *resolver.Resolver
	acquirer *acquire.Acquirer
	runner   *pipeline.Runner
}

// openSession builds the resolver → acquirer → extractor stack. The caller
// must Close the session so the cache is flushed.
func (c *CLI) openSession(cmd *cobra.Command) (*session, error) {
	logger := loggerFromContext(cmd.Context())
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	localRepo, err := maven.ResolveLocalRepository(cfg.LocalRepository)
	if err != nil {
		return nil, err
	}
	scanner, err := extract.NewScanner(cfg.Scanner)
	if err != nil {
		return nil, err
	}
	decisions, err := c.decisions(cfg)
	if err != nil {
		return nil, err
	}
	st, err := c.openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	remote := mavenclient.NewClient(mavenclient.Options{
		BaseURL: cfg.RemoteRepository,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	res := resolver.New(resolver.Options{
		LocalRepository: localRepo,
		Remote:          remoteForResolver(cfg, remote),
		Cache:           st,
		Logger:          logger,
	})
	acq := acquire.New(acquire.Options{
		LocalRepository:  localRepo,
		Remote:           remote,
		Decisions:        decisions,
		Offline:          cfg.Offline,
		NoRemoteSidecars: !cfg.EnrichRemote,
		Logger:           logger,
	})
	ext := extract.New(extract.Options{Scanner: scanner, Cache: st, Logger: logger})

	logger.Debug("session ready",
		"local_repository", localRepo,
		"remote", remote.BaseURL(),
		"cache", st.Dir(),
		"offline", cfg.Offline,
		"scanner", cfg.Scanner)

	return &session{
		cfg:      cfg,
		store:    st,
		resolver: res,
		acquirer: acq,
		runner: pipeline.NewRunner(pipeline.Options{
			Resolver:  res,
			Acquirer:  acq,
			Extractor: ext,
			Cache:     st,
			Logger:    logger,
		}),
	}, nil
}

// Close flushes the cache.
func (s *session) Close() error {
	return s.store.Close()
}

// remoteForResolver disables remote POM lookups in offline mode.
func remoteForResolver(cfg *config.Config, remote resolver.POMFetcher) resolver.POMFetcher {
	if cfg.Offline {
		return nil
	}
	return remote
}

// decisions picks the operator: the terminal when stdin is interactive,
// otherwise default_strategy with every download approved.
func (c *CLI) decisions(cfg *config.Config) (acquire.DecisionProvider, error) {
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}
	if cfg.NonInteractive || !isTerminal(c.Stdin) {
		return acquire.Fixed{Choice: strategy, Approve: true}, nil
	}
	return consoleDecisions{in: c.Stdin, out: c.Stderr}, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// closeSession closes s, logging rather than masking an earlier error.
func closeSession(ctx context.Context, s *session) {
	if err := s.Close(); err != nil {
		loggerFromContext(ctx).Warn("cache flush failed", "err", err)
	}
}
