package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WhileEndless/go-reqtemplate/pkg/compression"
	"github.com/WhileEndless/go-reqtemplate/pkg/request"
)

type resolveFlags struct {
	name      string
	vars      []string
	compress  string
	chunked   bool
	chunkSize int
	http2     bool
	validate  bool
}

func newResolveCmd(g *globalFlags) *cobra.Command {
	f := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a request and print it",
		Long: `Resolve expands the named request with the given variables and writes the raw
request to stdout. A variable given more than once becomes a collection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.name, "request", "r", "", "Request name")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Variable as name=value (repeatable)")
	cmd.Flags().StringVar(&f.compress, "compress", "", "Compress the body ("+strings.Join(compression.Supported(), ", ")+")")
	cmd.Flags().BoolVar(&f.chunked, "chunked", false, "Frame the body with chunked transfer coding")
	cmd.Flags().IntVar(&f.chunkSize, "chunk-size", 0, "Chunk size for --chunked")
	cmd.Flags().BoolVar(&f.http2, "http2", false, "Print the HTTP/2 text form")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "Fail when the resolved request is invalid")
	_ = cmd.MarkFlagRequired("request")

	return cmd
}

func runResolve(cmd *cobra.Command, g *globalFlags, f *resolveFlags) error {
	vars, err := parseVars(f.vars)
	if err != nil {
		return err
	}

	opts := request.DefaultBuildOptions()
	if f.http2 {
		opts = request.HTTP2Options()
	}
	if f.compress != "" {
		c, ok := compression.Parse(f.compress)
		if !ok {
			return fmt.Errorf("unsupported compression %q", f.compress)
		}
		opts.Compression = c
	}
	opts.Chunked = f.chunked
	opts.ChunkSize = f.chunkSize

	def, err := g.load(cmd)
	if err != nil {
		return err
	}
	tmpl, err := def.Template(f.name)
	if err != nil {
		return err
	}

	logger := g.logger(cmd)
	for _, name := range tmpl.Variables() {
		if _, ok := vars[name]; !ok {
			logger.Info("variable not provided", "request", f.name, "variable", name)
		}
	}

	req, err := tmpl.Resolve(vars).Request()
	if err != nil {
		return err
	}

	if f.validate {
		result := req.Validate()
		for _, w := range result.Warnings {
			logger.Warn("request warning", "request", f.name, "warning", w)
		}
		if !result.Valid {
			return fmt.Errorf("invalid request %s: %s", f.name, strings.Join(result.Errors, "; "))
		}
	}

	raw, err := req.BuildWithOptions(opts)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(raw)
	return err
}

// parseVars turns name=value pairs into a variable map. Repeated names collect into a
// slice in the order given.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", pair)
		}
		switch prev := vars[name].(type) {
		case nil:
			vars[name] = value
		case string:
			vars[name] = []string{prev, value}
		case []string:
			vars[name] = append(prev, value)
		}
	}
	return vars, nil
}
