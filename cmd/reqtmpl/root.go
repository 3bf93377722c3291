package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/WhileEndless/go-reqtemplate/pkg/config"
	"github.com/WhileEndless/go-reqtemplate/pkg/logging"
	"github.com/WhileEndless/go-reqtemplate/pkg/version"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	logLevel  string
	logFormat string
	file      string
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(g.logLevel),
		Format: logging.ParseFormat(g.logFormat),
		Output: cmd.ErrOrStderr(),
	})
}

func (g *globalFlags) load(cmd *cobra.Command) (*config.Definition, error) {
	if g.file == "" {
		return nil, fmt.Errorf("a definition file is required (-f)")
	}
	return config.NewLoader(g.logger(cmd)).LoadFromFile(g.file)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "reqtmpl",
		Short: "Resolve HTTP request templates into raw requests",
		Long: `reqtmpl loads named request prototypes from a YAML or JSON definition file,
expands their URI, query, header and body templates, and prints the raw request.

Example:
  reqtmpl resolve -f api.yaml -r getUser --var id=42 --var active=true`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().StringVarP(&g.file, "file", "f", "", "Definition file (.yaml, .yml or .json)")

	root.AddCommand(newResolveCmd(g), newVarsCmd(g), newListCmd(g), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reqtmpl %s\n", version.GetVersion())
		},
	}
}

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the requests of a definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := g.load(cmd)
			if err != nil {
				return err
			}
			for _, name := range def.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, def.Requests[name].RequestLine)
			}
			return nil
		},
	}
}
