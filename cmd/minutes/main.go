// Command minutes manages and browses the meeting-minutes database.
//
// Usage:
//
//	minutes [-db path] [command]
//
// Commands:
//
//	browse  open the TUI browser (default)
//	init    create the database schema and exit
//	seed    populate demo data
//	sweep   delete summary processes older than the retention age
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zackriya-Solutions/meeting-minutes/internal/app"
	"github.com/Zackriya-Solutions/meeting-minutes/internal/config"
	"github.com/Zackriya-Solutions/meeting-minutes/internal/db"
	"github.com/Zackriya-Solutions/meeting-minutes/internal/logging"
	"github.com/Zackriya-Solutions/meeting-minutes/internal/seed"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "path to the SQLite database file")
	retention := flag.Int("retention-hours", cfg.RetentionHours, "process retention age for sweep")
	flag.Parse()

	logger, err := logging.New(cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logging:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := db.Open(*dbPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ensure schema:", err)
		os.Exit(1)
	}

	command := flag.Arg(0)
	if command == "" {
		command = "browse"
	}

	switch command {
	case "init":
		fmt.Println("initialized", *dbPath)

	case "seed":
		if err := seed.Populate(ctx, store); err != nil {
			fmt.Fprintln(os.Stderr, "seed:", err)
			os.Exit(1)
		}
		fmt.Println("seeded demo data into", *dbPath)

	case "sweep":
		maxAge := time.Duration(*retention) * time.Hour
		n, err := store.CleanupProcesses(ctx, maxAge)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sweep:", err)
			os.Exit(1)
		}
		fmt.Printf("removed %d processes older than %s\n", n, maxAge)

	case "browse":
		p := tea.NewProgram(app.New(store), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintln(os.Stderr, "tui:", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want browse, init, seed, or sweep)\n", command)
		os.Exit(2)
	}
}
