// Package main provides the jobtracker CLI for recording and reviewing job
// applications.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	backend    string
	dataDir    string
	apiURL     string
	pageSize   int
	logLevel   string
	logFormat  string

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "jobtracker",
		Short:         "Track job applications",
		Long:          "jobtracker records job applications and their progress through the hiring pipeline, stored locally or in a remote REST collection.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON or YAML config file")
	flags.StringVar(&opts.backend, "backend", "", "Storage backend: file, sqlite, postgres, redis, memory or remote")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory for the file and sqlite backends")
	flags.StringVar(&opts.apiURL, "api-url", "", "Base URL of the remote collection (remote backend)")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Records per page")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newStatusCmd(opts),
		newDeleteCmd(opts),
		newStatsCmd(opts),
		newStatusesCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
