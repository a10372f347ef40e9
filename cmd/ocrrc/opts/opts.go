package opts

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ocrrc/pkg/config"
	"github.com/walteh/ocrrc/pkg/corpus"
	"github.com/walteh/ocrrc/pkg/history"
	"github.com/walteh/ocrrc/pkg/lockfile"
	"github.com/walteh/ocrrc/pkg/rulepack"
	"github.com/walteh/ocrrc/pkg/rules"
	"github.com/walteh/ocrrc/pkg/status"
)

// RootOpts contains shared options used by all commands. The zero value
// is not usable; Init must run first.
type RootOpts struct {
	Config       *config.Config
	ConfigPath   string // absolute path of the loaded config file
	Root         string // absolute corpus root
	Set          *rules.Set
	Reader       *corpus.Reader
	Tracker      *status.Manager
	UserLogger   *status.UserLogger
	LockPath     string
	HistoryPath  string
	JobsOverride int // --jobs flag, takes precedence over the config
}

// Init loads configuration and builds the shared dependencies. It must
// run after flag parsing so an explicit --config path is honored.
// Relative paths in the config resolve against the config file's
// directory, and the lock file and history database live beside it.
func (o *RootOpts) Init(ctx context.Context, configPath string) error {
	logger := zerolog.Ctx(ctx)

	path := configPath
	if path == "" {
		found, err := config.FindConfigFile(ctx, ".")
		if err != nil {
			return errors.Errorf("locating config: %w", err)
		}
		path = found
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.Load(ctx, abs)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	baseDir := filepath.Dir(abs)

	root := cfg.Corpus.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(baseDir, root)
	}

	entries, err := resolveRules(ctx, cfg, baseDir)
	if err != nil {
		return err
	}

	set, err := config.BuildRuleSet(entries)
	if err != nil {
		status.NewUserLogger(ctx).LogRuleSet(false, "Rule set rejected", err)
		return errors.Errorf("building rule set: %w", err)
	}

	reader, err := corpus.NewReader(cfg.Corpus.Encoding, cfg.Corpus.MaxFileSize)
	if err != nil {
		return errors.Errorf("creating corpus reader: %w", err)
	}

	o.Config = cfg
	o.ConfigPath = abs
	o.Root = root
	o.Set = set
	o.Reader = reader
	o.Tracker = status.New(logger)
	o.UserLogger = status.NewUserLogger(ctx)
	o.LockPath = filepath.Join(baseDir, lockfile.DefaultName)
	o.HistoryPath = filepath.Join(baseDir, history.DefaultName)

	logger.Debug().
		Str("config", abs).
		Str("corpus", root).
		Int("rules", set.Len()).
		Msg("initialized")
	return nil
}

// Jobs returns the worker count, 0 for one per CPU. The --jobs flag
// wins over the configured value.
func (o *RootOpts) Jobs() int {
	if o.JobsOverride > 0 {
		return o.JobsOverride
	}
	return o.Config.Jobs
}

// resolveRules combines inline rules with the configured pack. A config
// with neither falls back to the builtin english pack so a bare corpus
// root is enough to get started.
func resolveRules(ctx context.Context, cfg *config.Config, baseDir string) ([]config.RuleEntry, error) {
	entries := append([]config.RuleEntry(nil), cfg.Rules...)

	source := cfg.RulesSource
	if len(entries) == 0 && source == "" {
		zerolog.Ctx(ctx).Info().Msg("no rules configured, using builtin english pack")
		source = "builtin:english"
	}
	if source == "" {
		return entries, nil
	}

	if !rulepack.IsRemote(source) && !rulepack.IsBuiltin(source) && !filepath.IsAbs(source) {
		source = filepath.Join(baseDir, source)
	}

	packEntries, err := rulepack.Load(ctx, source)
	if err != nil {
		return nil, errors.Errorf("loading rule pack: %w", err)
	}
	return append(entries, packEntries...), nil
}
