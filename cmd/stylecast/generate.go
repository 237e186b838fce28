package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/cssgen"
	"github.com/stylecast/stylecast/internal/logger"
	"github.com/stylecast/stylecast/internal/optimizer"
	"github.com/stylecast/stylecast/internal/theme"
)

type generateOptions struct {
	ThemePath  string
	ConfigPath string
	OutPath    string
	Minify     bool
	Optimize   bool
	Verbose    bool
}

var generateCmdRunner = runGenerate

func newGenerateCmd(root *rootFlags) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the CSS document for a theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = root.configPath
			opts.Verbose = root.verbose
			return generateCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ThemePath, "theme", "t", "", "Path to theme file")
	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "", "Write CSS to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.Minify, "minify", false, "Minify the generated CSS")
	cmd.Flags().BoolVar(&opts.Optimize, "optimize", true, "Apply optimization passes to the generated CSS")
	cmd.MarkFlagRequired("theme") //nolint:errcheck

	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	th, err := theme.LoadFile(opts.ThemePath)
	if err != nil {
		return err
	}

	configs := &config.FileLoader{Path: opts.ConfigPath}
	cfg, err := configs.LoadConfiguration()
	if err != nil {
		return err
	}

	engine := cssgen.NewEngine(cssgen.NewResponsiveManager(), optimizer.New(false, log), log)

	genOpts := cssgen.DefaultOptions()
	genOpts.Minify = opts.Minify
	genOpts.Optimize = opts.Optimize
	genOpts.IncludeAnimations = cfg.Animation.Enabled
	genOpts.UseCache = false

	css, err := engine.GenerateThemeCSS(th, cfg, genOpts)
	if err != nil {
		return err
	}

	if opts.OutPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), css)
		return nil
	}
	return os.WriteFile(opts.OutPath, []byte(css), 0o644)
}
