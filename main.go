// Package main is the entry point for the vale CLI tool, which ingests ranked
// League of Legends matches from the Riot API and stores per-player timeline
// features for analysis.
package main

import "github.com/marquin311/analytics-do-vale/cmd"

func main() {
	cmd.Execute()
}
