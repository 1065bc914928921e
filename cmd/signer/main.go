// Package main provides the signer command for checking and re-signing generated markdown
// summaries.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Blackmvmba88/q2bs/internal/formatter"
	"github.com/Blackmvmba88/q2bs/pkg/metadata"
)

// errVerifyFailed is returned when at least one file fails verification.
var errVerifyFailed = errors.New("verification failed")

func newRootCmd() *cobra.Command {
	var (
		verifyOnly bool
		generator  string
	)

	cmd := &cobra.Command{
		Use:   "signer <file.md>...",
		Short: "Verify or re-sign markdown summaries",
		Long: `Without flags, realigns the tables of each file and writes it back with a fresh
integrity block. With --verify, only checks that each file still matches its block.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}

				content := string(data)

				if verifyOnly {
					if _, err := metadata.Verify(content); err != nil {
						fmt.Fprintf(out, "FAIL %s: %v\n", path, err)

						failed++

						continue
					}

					fmt.Fprintf(out, "OK   %s\n", path)

					continue
				}

				meta, _ := metadata.Extract(content)
				if meta == nil {
					meta = &metadata.Metadata{}
				}

				if generator != "" {
					meta.Generator = generator
				}

				signed := metadata.Sign(formatter.FormatMarkdown(content), metadata.Metadata{
					Generator: meta.Generator,
					Version:   meta.Version,
				})

				if err := os.WriteFile(path, []byte(signed), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}

				fmt.Fprintf(out, "Signed %s\n", path)
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errVerifyFailed, failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&verifyOnly, "verify", false, "Only verify, do not rewrite")
	cmd.Flags().StringVar(&generator, "generator", "", "Generator name to record when signing")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
