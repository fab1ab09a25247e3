package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/oisee/optcheck/pkg/check"
	"github.com/oisee/optcheck/pkg/cubin"
	"github.com/oisee/optcheck/pkg/isa"
	"github.com/oisee/optcheck/pkg/result"
	"github.com/spf13/cobra"
)

// errVerdictFailed distinguishes "ran and failed verification" (exit 2) from
// fatal input errors (exit 1).
var errVerdictFailed = errors.New("verification failed")

func main() {
	var binary string
	var txt string
	var mapping string
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "optcheck",
		Short:         "Check a CUDA binary for compiler-dropped fences",
		Long:          "optcheck recovers the ordering specification embedded in a litmus test's\nSASS and verifies the required membar instructions survived compilation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := isa.ParseGeneration(mapping)
			if err != nil {
				return err
			}

			var text, testname string
			switch {
			case binary != "" && txt != "":
				return errors.New("give either -bin or -txt, not both")
			case binary != "":
				text, err = cubin.Disassemble(binary)
				if err != nil {
					return err
				}
				fmt.Printf("Binary '%s' successfully loaded\n", binary)
				testname = binary
			case txt != "":
				data, err := os.ReadFile(txt)
				if err != nil {
					return err
				}
				text = string(data)
				fmt.Printf("File '%s' successfully read\n", txt)
				testname = txt
			default:
				return errors.New("neither binary nor textfile given")
			}

			v := &check.Verifier{Generation: gen, Out: os.Stdout, Debug: debug}
			rep, err := v.Run(text, strings.ToLower(testname))
			if err != nil {
				return err
			}
			if !rep.OK {
				fmt.Println("!!FAILURE!!")
				return errVerdictFailed
			}
			fmt.Println("!!SUCCESS!!")
			return nil
		},
	}
	rootCmd.Flags().StringVar(&binary, "bin", "", "CUDA binary to disassemble and check")
	rootCmd.Flags().StringVar(&txt, "txt", "", "Pre-captured cuobjdump output to check")
	rootCmd.Flags().StringVar(&mapping, "mapping", "pre-maxwell", "Instruction mapping (pre-maxwell or maxwell)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Dump the recovered specification")

	// batch command
	var workers int
	var output string

	batchCmd := &cobra.Command{
		Use:   "batch [dumpfiles...]",
		Short: "Verify a set of pre-captured disassembly files in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := isa.ParseGeneration(mapping)
			if err != nil {
				return err
			}

			b := &check.Batch{Generation: gen, NumWorkers: workers}
			results := b.Run(args)

			var entries []result.Entry
			fatal := 0
			failed := false
			for _, r := range results {
				e := result.Entry{File: r.File}
				switch {
				case r.Err != nil:
					fatal++
					e.Error = r.Err.Error()
					fmt.Printf("%s: error: %v\n", r.File, r.Err)
				case r.Report.OK:
					e.OK = true
					e.Clusters = r.Report.Chains
					e.Observed = r.Report.Observed
					e.Target = r.Report.Target
					fmt.Printf("%s: OK\n", r.File)
				default:
					failed = true
					e.Clusters = r.Report.Chains
					e.Observed = r.Report.Observed
					e.Target = r.Report.Target
					fmt.Printf("%s: FAILURE\n", r.File)
				}
				entries = append(entries, e)
			}

			done, bad := b.Progress()
			fmt.Printf("\n%d checked, %d failed\n", done, bad)

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := result.WriteJSON(f, entries); err != nil {
					return err
				}
				fmt.Printf("Written to %s\n", output)
			}

			if fatal > 0 {
				return fmt.Errorf("%d files had input errors", fatal)
			}
			if failed {
				return errVerdictFailed
			}
			return nil
		},
	}
	batchCmd.Flags().StringVar(&mapping, "mapping", "pre-maxwell", "Instruction mapping (pre-maxwell or maxwell)")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "Number of workers (0 = NumCPU)")
	batchCmd.Flags().StringVar(&output, "output", "", "Output JSON report path")

	rootCmd.AddCommand(batchCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errVerdictFailed) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "optcheck: %v\n", err)
		os.Exit(1)
	}
}
