package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Strob0t/DocuCrew/internal/domain/repository"
	"github.com/Strob0t/DocuCrew/internal/port/repohost"
)

func newAnalyzeCmd(flags *rootFlags) *cobra.Command {
	var (
		token    string
		asJSON   bool
		showTree bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <repo>",
		Short: "Extract and print a repository snapshot",
		Long:  "Extract metadata, a depth-bounded file tree and key files from a GitHub repository given as a URL or owner/name.",
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

			ctx := repohost.WithToken(cmd.Context(), token)
			snap, apiFiles, err := a.extractor.Analyze(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"data": snap, "api_files": apiFiles})
			}
			printSummary(out, snap, apiFiles)
			if showTree {
				fmt.Fprintln(out)
				fmt.Fprintln(out, repository.FormatTree(snap.Structure))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "github-token", "", "GitHub token for this request")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().BoolVar(&showTree, "tree", true, "print the file tree")
	return cmd
}
