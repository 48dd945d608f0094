package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hradmin/modules/hrm"
	"github.com/iota-uz/hradmin/pkg/configuration"
	"github.com/iota-uz/hradmin/pkg/notify"
)

type rootOptions struct {
	output   string
	baseURL  string
	envFiles []string

	stdout io.Writer
	stderr io.Writer

	conf   *configuration.Configuration
	module *hrm.Module
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hradmin",
		Short:         "Manage HR reference data: tribes, relations and employment statuses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.output = strings.ToLower(strings.TrimSpace(opts.output))
			if !validOutput(opts.output) {
				return withCode(exitUsage, fmt.Errorf("invalid --output %q (expected json|yaml|table)", opts.output))
			}
			return opts.loadConfig()
		},
	}
	cmd.SetOut(opts.stdout)
	cmd.SetErr(opts.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: json|yaml|table")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Override API_BASE_URL")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load")

	cmd.AddCommand(newTribesCmd(opts))
	cmd.AddCommand(newRelationsCmd(opts))
	cmd.AddCommand(newEmploymentStatusesCmd(opts))
	cmd.AddCommand(newFindCmd(opts))
	cmd.AddCommand(newMockServerCmd(opts))
	return cmd
}

func (o *rootOptions) loadConfig() error {
	if o.conf != nil {
		return nil
	}
	conf, err := configuration.Load(o.envFiles)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if strings.TrimSpace(o.baseURL) != "" {
		conf.API.BaseURL = strings.TrimSpace(o.baseURL)
		if err := conf.API.Validate(); err != nil {
			return withCode(exitUsage, err)
		}
	}
	o.conf = conf
	return nil
}

// hrm builds the module on first use. Notifications go to stderr so stdout stays
// machine-readable.
func (o *rootOptions) hrm() (*hrm.Module, error) {
	if o.module != nil {
		return o.module, nil
	}
	log := logrus.NewEntry(o.conf.Logger())
	m, err := hrm.NewModule(hrm.ModuleOptions{Config: o.conf, Logger: log})
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	m.EventBus().Subscribe(notify.Topic, notify.WriterHandler(o.stderr))
	o.module = m
	return m, nil
}

func (o *rootOptions) close() {
	if o.conf != nil {
		o.conf.Unload()
	}
}

func exactArgs(n int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return withCode(exitUsage, fmt.Errorf("%s expects %d argument(s) (%s), got %d",
				cmd.CommandPath(), n, strings.Join(names, ", "), len(args)))
		}
		return nil
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	opts := &rootOptions{stdout: os.Stdout, stderr: os.Stderr}
	err := newRootCmd(opts).ExecuteContext(ctx)
	opts.close()
	stop()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
