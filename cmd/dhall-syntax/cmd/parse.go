package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metaphox/dhall-go/render"
)

func newParseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree as JSON or YAML",
		Long: `Parses a file, or stdin when no file is given, and prints its syntax
tree. Every node lists its kind and line:column position first.

Examples:
  dhall-syntax parse package.dhall
  echo '{ a = 1 }' | dhall-syntax parse --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			f, err := o.parseFile(name, src)
			if err != nil {
				return o.report(cmd.ErrOrStderr(), src, err)
			}
			if o.cfg.Output.Format == "yaml" {
				return render.YAML(cmd.OutOrStdout(), f.Expr)
			}
			return render.JSON(cmd.OutOrStdout(), f.Expr)
		},
	}
}
