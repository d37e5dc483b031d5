// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/perspective-engine/internal/store"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage the local paper database (query, list, runs)",
	Long: `Papers manages the local SQLite paper database built from saved search
pools. Use subcommands to search it, list its contents, or show past
search runs.`,
}

// --- query subcommand ---

var papersQueryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Full-text search over indexed papers",
	Long: `Query searches indexed paper titles and abstracts with FTS5 full-text
search, ranked by relevance.`,
	RunE: runPapersQuery,
}

func runPapersQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more search terms")
	}

	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	papers, err := st.Query(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPapersOutput(papers, jsonOutput)
}

// --- list subcommand ---

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed papers",
	RunE:  runPapersList,
}

func runPapersList(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.All(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPapersOutput(papers, jsonOutput)
}

// --- runs subcommand ---

var papersRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show past search runs",
	RunE:  runPapersRuns,
}

func runPapersRuns(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(context.Background())
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No search runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-6s  %s\n", "ID", "Query", "Total", "When")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		query := r.Query
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-6d  %s\n",
			r.ID, query, r.Total, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// --- shared helpers ---

func formatPapersOutput(papers []types.Paper, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(types.DisplayAll(papers))
	}

	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-60s  %-6s  %s\n", "PMID", "Title", "Year", "Journal")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, p := range papers {
		p = p.Display()
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		journal := p.Journal
		if len(journal) > 30 {
			journal = journal[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-60s  %-6s  %s\n", p.PMID, title, p.Year, journal)
	}

	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(papers))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	papersCmd.PersistentFlags().String("db", "", "paper database path (default data/index/papers.db)")
	papersCmd.PersistentFlags().Bool("json", false, "output results as JSON")

	papersQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")

	papersCmd.AddCommand(papersQueryCmd)
	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersRunsCmd)

	rootCmd.AddCommand(papersCmd)
}
