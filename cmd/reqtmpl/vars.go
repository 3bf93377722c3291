package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVarsCmd(g *globalFlags) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "vars",
		Short: "List the variables each request expects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := g.load(cmd)
			if err != nil {
				return err
			}

			names := def.Names()
			if name != "" {
				names = []string{name}
			}
			for _, n := range names {
				tmpl, err := def.Template(n)
				if err != nil {
					return err
				}
				if name != "" {
					for _, v := range tmpl.Variables() {
						fmt.Fprintln(cmd.OutOrStdout(), v)
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", n, strings.Join(tmpl.Variables(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "request", "r", "", "Only list variables of this request")
	return cmd
}
