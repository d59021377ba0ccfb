package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaphox/dhall-go/ast"
)

func newFmtCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a file back as Dhall source",
		Long: `Parses a file, or stdin when no file is given, and prints the
expression again with canonical spacing. Comments inside the expression are
not kept; shebang lines are.`,
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
			w := cmd.OutOrStdout()
			for _, line := range f.Shebangs {
				fmt.Fprintln(w, line)
			}
			fmt.Fprintln(w, ast.Format(f.Expr))
			return nil
		},
	}
}
