// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fergidotcom/reference-refinement/internal/fetch"
	"github.com/fergidotcom/reference-refinement/internal/logging"
	"github.com/fergidotcom/reference-refinement/internal/match"
	"github.com/fergidotcom/reference-refinement/internal/rank"
	"github.com/fergidotcom/reference-refinement/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [url]",
	Short: "Validate a single candidate URL against a reference",
	Long: `Validate fetches one URL, runs barrier detection and content matching
against the given reference, and prints the resulting verdict.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ref := referenceFromFlags(cmd)
	declaredTitle, _ := cmd.Flags().GetString("declared-title")

	fetcher := fetch.NewFetcher(cfg.Fetch, log)
	matcher := match.NewMatcher(cfg.Match, log)
	cfg.Rank.NetworkValidation = true

	r := rank.NewRanker(cfg.Rank, fetcher, matcher, nil, log)
	sel := r.Rank(context.Background(), ref, []types.Candidate{
		{URL: args[0], DeclaredTitle: declaredTitle},
	})
	sc := sel.All[0]

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sc)
	}

	fmt.Printf("URL:        %s\n", sc.Candidate.URL)
	fmt.Printf("Score:      %d\n", sc.Verdict.Score)
	fmt.Printf("Accessible: %v\n", sc.Verdict.Accessible)
	if sc.Verdict.Barrier.Kind != types.BarrierNone {
		fmt.Printf("Barrier:    %s\n", sc.Verdict.Barrier.Kind)
	}
	if sc.Verdict.MatchConfidence > 0 {
		fmt.Printf("Match:      %.0f%%\n", sc.Verdict.MatchConfidence*100)
	}
	fmt.Printf("Reason:     %s\n", sc.Verdict.Reason)
	return nil
}

// referenceFromFlags builds the expected reference from command flags.
func referenceFromFlags(cmd *cobra.Command) types.Reference {
	author, _ := cmd.Flags().GetString("author")
	title, _ := cmd.Flags().GetString("title")
	year, _ := cmd.Flags().GetInt("year")
	publication, _ := cmd.Flags().GetString("publication")
	return types.Reference{Author: author, Title: title, Year: year, Publication: publication}
}

func init() {
	validateCmd.Flags().String("author", "", "reference author, e.g. \"Veblen, T.\"")
	validateCmd.Flags().String("title", "", "reference title")
	validateCmd.Flags().Int("year", 0, "publication year")
	validateCmd.Flags().String("publication", "", "journal or publisher")
	validateCmd.Flags().String("declared-title", "", "title the URL was advertised under")
	validateCmd.Flags().Bool("json", false, "output the verdict as JSON")

	rootCmd.AddCommand(validateCmd)
}
