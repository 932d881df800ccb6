package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/report"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("vale shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("vale")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			limit := 20
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					limit = n
				}
			}
			shellList(db, limit)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <match-id-prefix> [--player <puuid>] [--kills]")
				continue
			}
			prefix := args[0]
			var focus string
			var kills bool
			for i := 1; i < len(args); i++ {
				switch {
				case args[i] == "--player" && i+1 < len(args):
					focus = args[i+1]
					i++
				case args[i] == "--kills":
					kills = true
				}
			}
			if err := showMatch(db, prefix, focus, kills); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <puuid-prefix|summoner-name> [...]")
				continue
			}
			if err := showPlayers(db, args, 0); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "summary":
			shellSummary(cmd, db)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [n]", "list the n most recent matches (default 20)"},
		{"show <match-id-prefix>", "show a match's tables"},
		{"show <prefix> --player <puuid>", "same, highlighting one player"},
		{"show <prefix> --kills", "also print the kill feed"},
		{"player <puuid|name> [...]", "cross-match analysis for one or more players"},
		{"summary", "database overview"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB, limit int) {
	matches, err := db.ListMatches(limit)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatchList(os.Stdout, matches)
}

func shellSummary(cmd *cobra.Command, db *storage.DB) {
	ov, err := db.GetDBOverview()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	platforms, err := db.RegionCounts(cmd.Context())
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	champs, err := db.GetTopChampions(10)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintOverview(os.Stdout, ov, platforms, champs)
}
