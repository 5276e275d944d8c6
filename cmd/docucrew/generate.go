package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/port/repohost"
)

func newGenerateCmd(flags *rootFlags) *cobra.Command {
	var (
		token  string
		raw    bool
		asJSON bool
		output string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "generate <repo>",
		Short: "Generate documentation for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := loadConfig(cmd, flags, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := newApp(cfg, nil, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			progress := cmd.ErrOrStderr()
			a.docs.SetProgressObserver(func(_ context.Context, ev crew.ProgressEvent) {
				fmt.Fprintln(progress, progressLine(ev))
			})

			ctx := repohost.WithToken(cmd.Context(), token)
			snap, apiFiles, err := a.extractor.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			printSummary(progress, snap, apiFiles)
			fmt.Fprintln(progress)

			result := a.docs.Run(ctx, snap)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			}
			if !result.Success {
				fmt.Fprintln(progress, errorStyle.Render("documentation run failed"))
				return errors.New(result.Error)
			}
			if output != "" {
				if err := os.WriteFile(output, []byte(result.Documentation.Raw), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(progress, "documentation written to %s\n", output)
			}
			if asJSON {
				return nil
			}
			if raw {
				_, err := fmt.Fprintln(out, result.Documentation.Raw)
				return err
			}
			rendered, err := renderMarkdown(result.Documentation.Raw, width)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	cmd.Flags().StringVar(&token, "github-token", "", "GitHub token for this request")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal rendering")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run result as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the markdown to this file")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width for rendered output")
	return cmd
}
