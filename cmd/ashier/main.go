// Command ashier scripts terminal interactions against a declarative
// template configuration. example/login.ashier shows the configuration
// language; the matching semantics live in internal/ashier.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stef-k/ashier/internal/ashier"
	"github.com/stef-k/ashier/internal/ashierlog"
	"github.com/stef-k/ashier/internal/ptyio"
	"github.com/stef-k/ashier/internal/session"
)

// exitConfigError is the exit status used when the configuration file
// accumulated user errors, matching original_source's
// utils.AbortOnError().
const exitConfigError = 252

func main() {
	os.Exit(run())
}

func run() int {
	var logLevel string
	exitCode := 0

	root := &cobra.Command{
		Use:           "ashier <config-file> -- <child-argv>...",
		Short:         "Script terminal interactions against a declarative template configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := execute(cmd, args, logLevel)
			exitCode = code
			return err
		},
	}
	root.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

func execute(cmd *cobra.Command, args []string, logLevel string) (int, error) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return 1, fmt.Errorf("ashier: usage: ashier <config-file> -- <child-argv>...")
	}

	configPath := args[0]
	argv := args[dash:]
	if len(argv) == 0 {
		return 1, fmt.Errorf("ashier: no child command given after --")
	}

	logger := ashierlog.New("cli")
	if err := ashierlog.SetLevel(logger, logLevel); err != nil {
		return 1, err
	}

	cfg, sink, err := ashier.Load(configPath)
	if err != nil {
		return 1, err
	}
	if !sink.Empty() {
		for _, msg := range sink.Messages() {
			fmt.Fprintln(os.Stderr, msg)
		}
		fmt.Fprintln(os.Stderr, "Errors detected.  Exiting Ashier...")
		return exitConfigError, nil
	}

	raw, err := ptyio.SetRaw()
	if err != nil {
		logger.WithError(err).Warn("could not set controlling terminal raw")
	}
	defer raw.Restore()

	child, err := ptyio.Spawn(argv)
	if err != nil {
		return 1, err
	}
	defer child.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	ptyio.WatchWinsize(ctx, child)

	sess := session.New(cfg, child, os.Stdout)
	if runErr := sess.Run(ctx, os.Stdin); runErr != nil && ctx.Err() == nil {
		logger.WithError(runErr).Error("session ended with error")
	}

	code, err := sess.Wait()
	if err != nil {
		logger.WithError(err).Warn("child wait failed")
		return 1, nil
	}
	return code, nil
}
