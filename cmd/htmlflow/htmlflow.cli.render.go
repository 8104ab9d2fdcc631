package main

import (
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-htmlflow"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	modelPath  string
	outputPath string
	configPath string
	compact    bool
}

func renderCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameRender + " <view>",
		Short: "Render a sample view",
		Long: `Render a built-in sample view. The model is read from a YAML or JSON
file; without one the view's example model is used.`,
		Example: `  htmlflow render track
  htmlflow render playlist -m playlist.yaml -o playlist.html
  cat links.json | htmlflow render links -m - --compact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], cfg, stdin, stdout)
		},
	}

	cmd.Flags().StringVarP(&cfg.modelPath, FlagModel, FlagModelShort, "", `model file (use "-" for stdin)`)
	cmd.Flags().StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file")
	cmd.Flags().StringVarP(&cfg.configPath, FlagConfig, FlagConfigShort, "", "view configuration file")
	cmd.Flags().BoolVar(&cfg.compact, FlagCompact, false, "disable indentation")

	return cmd
}

func runRender(cmd *cobra.Command, name string, cfg *renderConfig, stdin io.Reader, stdout io.Writer) error {
	viewCfg, err := loadViewConfig(cfg.configPath)
	if err != nil {
		return err
	}
	logger, err := viewCfg.Logger()
	if err != nil {
		return newExitError(ExitCodeConfigError, ErrMsgLoadConfigFailed, err)
	}
	defer func() { _ = logger.Sync() }()

	opts := append(viewCfg.Options(nil), htmlflow.WithLogger(logger))
	if cfg.compact {
		opts = append(opts, htmlflow.WithIndented(false))
	}
	engine := htmlflow.NewEngine(htmlflow.WithEngineLogger(logger))
	c, err := newCatalog(engine, opts...)
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgBuildViewsFailed, err)
	}

	s, ok := c.get(name)
	if !ok {
		return newExitError(ExitCodeInputError, ErrMsgUnknownView+": "+name, nil)
	}
	model := s.example
	if cfg.modelPath != "" {
		data, err := readInput(cfg.modelPath, stdin)
		if err != nil {
			return newExitError(ExitCodeInputError, ErrMsgReadModelFailed, err)
		}
		model, err = s.decode(data)
		if err != nil {
			return newExitError(ExitCodeInputError, ErrMsgDecodeModelFailed, err)
		}
	}

	html, err := engine.Render(cmd.Context(), name, model)
	if err != nil {
		logger.Debug(ErrMsgRenderFailed, zap.String(htmlflow.LogFieldView, name), zap.Error(err))
		return newExitError(ExitCodeError, ErrMsgRenderFailed, err)
	}
	if err := writeOutput(cfg.outputPath, html, stdout); err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// loadViewConfig loads the configuration at path, or returns the zero
// configuration when path is empty.
func loadViewConfig(path string) (*htmlflow.Config, error) {
	if path == "" {
		return &htmlflow.Config{}, nil
	}
	cfg, err := htmlflow.LoadConfigFile(path)
	if err != nil {
		return nil, newExitError(ExitCodeConfigError, ErrMsgLoadConfigFailed, err)
	}
	return cfg, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes html to stdout or replaces the file at path atomically.
func writeOutput(path, html string, stdout io.Writer) error {
	if path == "" || path == FlagDefaultOutput {
		_, err := io.WriteString(stdout, html)
		return err
	}
	return atomic.WriteFile(path, strings.NewReader(html))
}
