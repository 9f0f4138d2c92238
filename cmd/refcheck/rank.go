// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/fergidotcom/reference-refinement/internal/cache"
	"github.com/fergidotcom/reference-refinement/internal/fetch"
	"github.com/fergidotcom/reference-refinement/internal/logging"
	"github.com/fergidotcom/reference-refinement/internal/match"
	"github.com/fergidotcom/reference-refinement/internal/rank"
	"github.com/fergidotcom/reference-refinement/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank [input.yaml]",
	Short: "Rank candidate URLs for a batch of references",
	Long: `Rank reads a YAML file of references with their candidate URLs, validates
every candidate, and selects the best primary and secondary link for each
reference. Selections that need human attention are flagged with the
reasons.

The input file is a list of entries:

    - reference:
        author: "Veblen, T."
        title: "The Theory of the Leisure Class"
        year: 1899
      candidates:
        - url: https://archive.org/details/theoryofleisurec00vebl
        - url: https://www.jstor.org/stable/10.2307/j.ctt1kgqwcr
          declared_title: "The Theory of the Leisure Class"`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

// rankEntry is one reference with its candidate URLs in the input file.
type rankEntry struct {
	Reference  types.Reference   `yaml:"reference" json:"reference"`
	Candidates []types.Candidate `yaml:"candidates" json:"candidates"`
}

// rankOutcome pairs an input reference with its ranked selection.
type rankOutcome struct {
	Reference types.Reference       `json:"reference" yaml:"reference"`
	Selection types.RankedSelection `json:"selection" yaml:"selection"`
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	if static, _ := cmd.Flags().GetBool("static"); static {
		cfg.Rank.NetworkValidation = false
	}

	entries, err := readRankInput(args[0])
	if err != nil {
		return err
	}

	var fetcher rank.Fetcher
	var matcher rank.Matcher
	if cfg.Rank.NetworkValidation {
		fetcher = fetch.NewFetcher(cfg.Fetch, log)
		matcher = match.NewMatcher(cfg.Match, log)
	}

	r := rank.NewRanker(cfg.Rank, fetcher, matcher, nil, log)

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("opening verdict cache: %w", err)
		}
		defer store.Close()
		r.SetCache(store)
	}

	outcomes := make([]rankOutcome, 0, len(entries))
	for _, e := range entries {
		sel := r.Rank(context.Background(), e.Reference, e.Candidates)
		outcomes = append(outcomes, rankOutcome{Reference: e.Reference, Selection: sel})
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}

	for _, o := range outcomes {
		printOutcome(o)
	}
	return nil
}

func readRankInput(path string) ([]rankEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var entries []rankEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing input file %s: %w", path, err)
	}
	return entries, nil
}

func printOutcome(o rankOutcome) {
	fmt.Println(o.Reference.Citation())

	if o.Selection.Primary != nil {
		p := o.Selection.Primary
		fmt.Printf("  primary:   %s (score %d)\n", p.Candidate.URL, p.Verdict.Score)
	} else {
		fmt.Println("  primary:   none")
	}
	if o.Selection.Secondary != nil {
		s := o.Selection.Secondary
		fmt.Printf("  secondary: %s (score %d)\n", s.Candidate.URL, s.Verdict.Score)
	}

	switch {
	case o.Selection.CanAutoFinalize:
		fmt.Println("  status:    auto-finalize")
	case o.Selection.NeedsHumanReview:
		fmt.Println("  status:    needs review")
		for _, reason := range o.Selection.ReviewReasons {
			fmt.Printf("             - %s\n", reason)
		}
	default:
		fmt.Println("  status:    ok")
	}
	fmt.Println()
}

func init() {
	rankCmd.Flags().Bool("static", false, "skip network validation, score from domain signals only")
	rankCmd.Flags().Bool("json", false, "output selections as JSON")

	rootCmd.AddCommand(rankCmd)
}
