// Command docucrew serves the DocuCrew API and runs documentation jobs from
// the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Strob0t/DocuCrew/internal/config"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configFile string
	envFile    string
	logLevel   string
	model      string
	natsURL    string
	host       string // serve only
	port       string // serve only
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "docucrew",
		Short: "Multi-agent documentation generator",
		Long: `DocuCrew extracts the structure of a GitHub repository and has a crew of
five agents (analyst, API documenter, README writer, example creator and
editor) turn it into a documentation bundle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", config.DefaultConfigFile, "YAML config file")
	pf.StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, ".env file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.model, "model", "", "model used by every agent")
	pf.StringVar(&flags.natsURL, "nats-url", "", "NATS server URL for progress events")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newAnalyzeCmd(flags),
		newGenerateCmd(flags),
		newWatchCmd(flags),
		newVersionCmd(),
	)
	return rootCmd
}

// cliFlags converts the flags that were set on the command line into config
// overrides.
func (f *rootFlags) cliFlags(cmd *cobra.Command) config.CLIFlags {
	var out config.CLIFlags
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if changed("config") {
		out.ConfigFile = &f.configFile
	}
	if changed("env-file") {
		out.EnvFile = &f.envFile
	}
	if changed("log-level") {
		out.LogLevel = &f.logLevel
	}
	if changed("model") {
		out.Model = &f.model
	}
	if changed("nats-url") {
		out.NatsURL = &f.natsURL
	}
	if changed("host") {
		out.Host = &f.host
	}
	if changed("port") {
		out.Port = &f.port
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docucrew %s (%s, %s)\n", version, commit, buildDate)
		},
	}
}
