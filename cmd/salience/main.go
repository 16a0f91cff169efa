package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/salience-go/engine"
	"github.com/wippyai/salience-go/session"
)

// flags holds the global command line settings. Values given on the
// command line override the config file.
type flags struct {
	config   string
	module   string
	license  string
	data     string
	user     string
	logPath  string
	mode     string
	encoding string
	mounts   map[string]string
	verbose  bool
}

var (
	global flags
	cfg    *fileConfig
	log    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "salience",
	Short: "Run text analytics through a Salience engine module",
	Long: `salience hosts a Salience engine compiled to WebAssembly and runs
analyses against text or files.

Examples:
  salience version --engine salience.wasm
  salience analyze --config salience.toml --themes --entities review.txt
  salience markup --kind sentiment --config salience.toml review.txt`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(global.verbose); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		loaded, err := loadConfig(global.config)
		if err != nil {
			return err
		}
		cfg = loaded
		global.apply(cmd, cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&global.config, "config", "c", "", "TOML configuration file")
	pf.StringVarP(&global.module, "engine", "e", "", "engine WebAssembly module")
	pf.StringVar(&global.license, "license", "", "license file, as the engine sees it")
	pf.StringVar(&global.data, "data", "", "engine data directory")
	pf.StringVar(&global.user, "user", "", "user directory (default <data>/user)")
	pf.StringVar(&global.logPath, "log", "", "engine startup log file")
	pf.StringVar(&global.mode, "mode", "", "startup mode: default or shortform")
	pf.StringVar(&global.encoding, "encoding", "", "text encoding: utf-8 or windows-1252")
	pf.StringToStringVar(&global.mounts, "mount", nil, "host directory mounted for the engine (host=guest)")
	pf.BoolVarP(&global.verbose, "verbose", "v", false, "log engine calls")

	rootCmd.AddCommand(versionCmd, locationCmd, envCmd, optionsCmd, analyzeCmd, markupCmd)
}

// apply overrides file settings with flags set on the command line.
func (f *flags) apply(cmd *cobra.Command, c *fileConfig) {
	changed := cmd.Flags().Changed
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("engine", &c.Engine.Module, f.module)
	set("license", &c.Session.License, f.license)
	set("data", &c.Session.Data, f.data)
	set("user", &c.Session.User, f.user)
	set("log", &c.Session.Log, f.logPath)
	set("mode", &c.Session.Mode, f.mode)
	set("encoding", &c.Session.Encoding, f.encoding)
	if changed("mount") {
		if c.Engine.Mounts == nil {
			c.Engine.Mounts = make(map[string]string)
		}
		for host, guest := range f.mounts {
			c.Engine.Mounts[host] = guest
		}
	}
}

func initLogger(verbose bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		zcfg.Encoding = "console"
		l, err = zcfg.Build()
	}
	if err != nil {
		return err
	}
	log = l
	engine.SetLogger(l.Named("engine"))
	session.SetLogger(l.Named("session"))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
