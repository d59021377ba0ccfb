package cmd

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
)

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check files for syntax errors",
		Long: `Parses every file and prints a diagnostic for each one that is not
valid Dhall. Files are parsed concurrently.

Examples:
  dhall-syntax check package.dhall
  dhall-syntax check --max-depth 200 ./types/*.dhall`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, o, args)
		},
	}
}

// checkResult is the outcome for one file. out holds its diagnostic.
type checkResult struct {
	out    bytes.Buffer
	failed bool
}

func runCheck(cmd *cobra.Command, o *options, paths []string) error {
	results := make([]checkResult, len(paths))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			r := &results[i]
			data, err := os.ReadFile(path)
			if err != nil {
				r.failed = true
				printError(&r.out, err)
				return
			}
			if _, err := o.parseFile(path, string(data)); err != nil {
				r.failed = true
				if err := o.report(&r.out, string(data), err); err != errReported {
					printError(&r.out, err)
				}
				return
			}
			o.log.Debug("file ok", "file", path)
		}(i, path)
	}
	wg.Wait()

	// Diagnostics are printed in argument order, not completion order.
	failed := 0
	for i := range results {
		if results[i].failed {
			failed++
			cmd.ErrOrStderr().Write(results[i].out.Bytes())
		}
	}
	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files failed\n", failed, len(paths))
		return errReported
	}
	return nil
}
