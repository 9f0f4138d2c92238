// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fergidotcom/reference-refinement/internal/domains"
	"github.com/fergidotcom/reference-refinement/internal/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score [url]",
	Short: "Score a URL offline from domain and title signals",
	Long: `Score judges a candidate URL without touching the network: domain quality
tier, content-type hints in the URL, and penalties from the declared title.
Useful for triaging large candidate lists before spending fetches on them.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	ref := referenceFromFlags(cmd)
	declaredTitle, _ := cmd.Flags().GetString("declared-title")

	ss := score.Static(domains.NewClassifier(), args[0], declaredTitle, ref)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ss)
	}

	fmt.Printf("URL:    %s\n", args[0])
	fmt.Printf("Host:   %s (%s tier)\n", ss.Domain.Host, ss.Domain.Tier)
	fmt.Printf("Score:  %d\n", ss.Score)
	fmt.Printf("Reason: %s\n", ss.Reason)
	return nil
}

func init() {
	scoreCmd.Flags().String("author", "", "reference author")
	scoreCmd.Flags().String("title", "", "reference title")
	scoreCmd.Flags().Int("year", 0, "publication year")
	scoreCmd.Flags().String("publication", "", "journal or publisher")
	scoreCmd.Flags().String("declared-title", "", "title the URL was advertised under")
	scoreCmd.Flags().Bool("json", false, "output the score as JSON")

	rootCmd.AddCommand(scoreCmd)
}
