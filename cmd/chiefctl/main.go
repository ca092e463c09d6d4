// chiefctl turns incoming report emails into the structured brief
// documents downstream dashboards consume.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/config"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/docstore"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/logging"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/mailbox"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/mcp"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/pipeline"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "pull":
		if err := runPull(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "show":
		if err := runShow(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stats":
		if err := runStats(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("chiefctl %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseCommon pulls the --config flag out of args; everything else is
// command-specific.
func parseCommon(args []string) (cfgPath string, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--config requires a path")
			}
			i++
			cfgPath = args[i]
		case strings.HasPrefix(args[i], "--config="):
			cfgPath = strings.TrimPrefix(args[i], "--config=")
		default:
			rest = append(rest, args[i])
		}
	}
	return cfgPath, rest, nil
}

func runPull(args []string) error {
	cfgPath, rest, err := parseCommon(args)
	if err != nil {
		return err
	}
	query := ""
	for i := 0; i < len(rest); i++ {
		switch {
		case rest[i] == "--query":
			if i+1 >= len(rest) {
				return fmt.Errorf("--query requires a value")
			}
			i++
			query = rest[i]
		case strings.HasPrefix(rest[i], "--query="):
			query = strings.TrimPrefix(rest[i], "--query=")
		default:
			return fmt.Errorf("unknown flag: %s", rest[i])
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if query != "" {
		cfg.Gmail.Query = query
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()

	source, err := mailbox.NewGmailSource(ctx, mailbox.GmailConfig{
		CredentialsFile: cfg.Gmail.CredentialsFile,
		TokenFile:       cfg.Gmail.TokenFile,
		Query:           cfg.Gmail.Query,
		MaxResults:      cfg.Gmail.MaxResults,
	})
	if err != nil {
		return fmt.Errorf("gmail authentication: %w", err)
	}

	st, err := docstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := pipeline.New(source, st, cfg, log).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Retrieved %d message(s), archived %d\n", stats.Retrieved, stats.Archived)
	if stats.DecodeDegraded > 0 {
		fmt.Printf("  %d message(s) degraded to empty body\n", stats.DecodeDegraded)
	}
	if stats.ScoreboardMerged {
		fmt.Println("  scoreboard merged")
	}
	fmt.Printf("  +%d action(s), +%d meeting(s), +%d insight(s), +%d decision(s)\n",
		stats.Actions, stats.Meetings, stats.Insights, stats.Decisions)
	return nil
}

func runShow(args []string) error {
	cfgPath, rest, err := parseCommon(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: chiefctl show <scoreboard|actions|meetings|insights|decisions>")
	}
	ns := rest[0]
	switch ns {
	case report.DocScoreboard, report.DocActions, report.DocMeetings,
		report.DocInsights, report.DocDecisions:
	default:
		return fmt.Errorf("unknown document %q", ns)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	st, err := docstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	raw, err := st.Get(context.Background(), ns)
	if err != nil {
		return err
	}
	if raw == nil {
		fmt.Println("(empty)")
		return nil
	}
	var pretty json.RawMessage = raw
	var buf map[string]any
	var list []any
	if json.Unmarshal(raw, &buf) == nil {
		pretty, _ = json.MarshalIndent(buf, "", "  ")
	} else if json.Unmarshal(raw, &list) == nil {
		pretty, _ = json.MarshalIndent(list, "", "  ")
	}
	fmt.Println(string(pretty))
	return nil
}

func runStats(args []string) error {
	cfgPath, _, err := parseCommon(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	st, err := docstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("documents: %d\narchive entries: %d\n", stats.Documents, stats.ArchiveEntries)
	return nil
}

func runMCP(args []string) error {
	cfgPath, _, err := parseCommon(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	st, err := docstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return mcp.ServeStdio(mcp.NewServer(mcp.ServerConfig{Store: st, Version: version}))
}

func printUsage() {
	fmt.Println(`chiefctl - report email intelligence pipeline

Usage:
  chiefctl pull [--config path] [--query gmail-query]   Pull and process one batch
  chiefctl show <document> [--config path]              Print a stored document
  chiefctl stats [--config path]                        Store counts
  chiefctl mcp [--config path]                          Serve documents over MCP (stdio)
  chiefctl version                                      Print version

Documents: scoreboard, actions, meetings, insights, decisions`)
}
