// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Command flowdesk is the workflow administration console and its
// companion commands for scripting against the same API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confighub/flowdesk/internal/clierr"
	"github.com/confighub/flowdesk/internal/config"
	"github.com/confighub/flowdesk/internal/logging"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	apiURL     string
	token      string
	demo       bool
	fixtures   string
	configPath string
	noLog      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "flowdesk",
		Short: "Administer approval workflows, users and projects",
		Long: `flowdesk - workflow administration console

Running flowdesk with no command opens the console: tabs for approval
flows, approval boxes, forms, users, roles, staffing, projects and
configurations, each with a record list and an edit panel.

The other commands read and change the same records from scripts.

Environment Variables:
  FLOWDESK_API_URL    API root (default: ` + config.DefaultAPIURL + `)
  FLOWDESK_TOKEN      Bearer token sent with every request
  FLOWDESK_TIMEOUT    Request timeout, e.g. 10s (default: 30s)
  FLOWDESK_LOG_DIR    Where run logs are written (default: ~/.flowdesk/logs)
  FLOWDESK_FIXTURES   YAML fixture file; implies --demo
`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.apiURL, "api-url", "", "API root URL (overrides config and FLOWDESK_API_URL)")
	pf.StringVar(&opts.token, "token", "", "API bearer token (overrides config and FLOWDESK_TOKEN)")
	pf.BoolVar(&opts.demo, "demo", false, "Use built-in demo data instead of the API")
	pf.StringVar(&opts.fixtures, "fixtures", "", "Load in-memory data from a YAML fixture file")
	pf.StringVar(&opts.configPath, "config", config.DefaultPath(), "Config file")
	pf.BoolVar(&opts.noLog, "no-log", false, "Do not write a run log")

	rootCmd.AddCommand(
		newConsoleCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
		newDeleteCmd(opts),
		newLoginCmd(opts),
		newWhoamiCmd(opts),
		newLogoutCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierr.Pretty(err))
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flags on top of it.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.token != "" {
		cfg.Token = o.token
	}
	if o.fixtures != "" {
		cfg.Fixtures = o.fixtures
	}
	if o.demo || cfg.Fixtures != "" {
		cfg.Demo = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, clierr.WrapWithHint(err, "check api_url in "+o.configPath+" or pass --api-url")
	}
	return cfg, nil
}

// openLog starts a run log for command. Failures are reported and the
// command carries on without a log.
func (o *rootOptions) openLog(cfg *config.Config, command string) *logging.Logger {
	if o.noLog {
		return nil
	}
	log, err := logging.New(cfg.LogDir, command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return log
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flowdesk version %s (built %s)\n", BuildTag, BuildDate)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for flowdesk.

Bash:
  $ source <(flowdesk completion bash)
  # Or add to ~/.bashrc:
  $ flowdesk completion bash >> ~/.bashrc

Zsh:
  $ source <(flowdesk completion zsh)
  # Or install to fpath:
  $ flowdesk completion zsh > "${fpath[1]}/_flowdesk"

Fish:
  $ flowdesk completion fish | source
  # Or install:
  $ flowdesk completion fish > ~/.config/fish/completions/flowdesk.fish

PowerShell:
  PS> flowdesk completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
