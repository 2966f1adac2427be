// Package cli implements the riskform command line: serve, ask, schema and
// openapi.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	riskform "github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/logging"
	"github.com/goliatone/go-riskform/pkg/orchestrator"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
)

// Option customises the command tree, mainly for tests.
type Option func(*app)

// WithPromptDriver replaces the survey terminal driver used by ask.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithLogger replaces the logger built from configuration.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

// WithOrchestratorOptions appends options to every orchestrator the
// commands open.
func WithOrchestratorOptions(opts ...orchestrator.Option) Option {
	return func(a *app) {
		a.extra = append(a.extra, opts...)
	}
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
	driver  tui.PromptDriver
	extra   []orchestrator.Option
}

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"model":            config.KeyModel,
	"catalog":          config.KeyCatalog,
	"preset":           config.KeyPreset,
	"locale":           config.KeyLocale,
	"unknown-features": config.KeyUnknownFeatures,
	"debug":            config.KeyDebug,
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{v: config.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "riskform",
		Short: "Obesity risk form backed by a trained classifier",
		Long: `riskform collects the seventeen lifestyle and anthropometric answers the
obesity classifier was trained on, in the model's own column order, and
reports the predicted class with its probability. It runs as a web form,
a JSON API or an interactive terminal session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logging.Sync(a.logger)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.String("model", "obesity_model.yaml", "classifier artifact (YAML or JSON)")
	flags.String("catalog", "", "catalog overlay overriding labels, bounds or codes")
	flags.String("preset", "", "form preset with title and label overrides")
	flags.String("locale", "pt-BR", "UI and class label locale (pt-BR, en)")
	flags.String("unknown-features", "passthrough", "policy for model columns missing from the catalog: passthrough or reject")
	flags.Bool("debug", false, "development logging at debug level")

	root.AddCommand(
		a.newServeCommand(),
		a.newAskCommand(),
		a.newSchemaCommand(),
		a.newOpenAPICommand(),
	)
	return root
}

// Execute runs the command tree with args, writing to out and errOut.
func Execute(ctx context.Context, args []string, out, errOut io.Writer, opts ...Option) error {
	root := NewRootCommand(opts...)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (a *app) load(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Root().PersistentFlags(), flagKeys); err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("addr"); f != nil {
		if err := a.v.BindPFlag(config.KeyAddr, f); err != nil {
			return fmt.Errorf("cli: bind addr: %w", err)
		}
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Debug)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("cli: flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("cli: bind --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) open(ctx context.Context) (*orchestrator.Orchestrator, error) {
	return riskform.Open(ctx, riskform.Options{
		ModelPath:       a.cfg.Model,
		CatalogPath:     a.cfg.Catalog,
		PresetPath:      a.cfg.Preset,
		UnknownFeatures: a.cfg.UnknownFeatures,
		Locale:          a.cfg.Locale,
		Theme:           a.cfg.RendererConfig(),
		Logger:          a.logger,
		Extra:           a.extra,
	})
}
