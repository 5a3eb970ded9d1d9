// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package cmd implements chanctl commands.
package cmd

import (
	"log/slog"
	"time"

	"github.com/nxgtw/go-msgchan/internal/config"
	"github.com/nxgtw/go-msgchan/internal/logging"
	"github.com/nxgtw/go-msgchan/mq"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// pollTimeout bounds single waits of commands, which must also watch a context.
var pollTimeout = mq.After(100 * time.Millisecond)

// app is the state shared by chanctl commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the chanctl command tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "chanctl",
		Short: "Named message channels playground",
		Long: `chanctl creates named message channels from HCL manifests,
feeds them from producer goroutines and delivers messages either
to blocking consumers or to callbacks on an event loop.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./chanctl.yaml or $HOME/.config/chanctl/chanctl.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(newRunCommand(a), newBenchCommand(a), newVersionCommand())
	return root
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if err := config.Setup(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}
