package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/ducminhle1904/smart-trailing-bot/internal/bot"
	"github.com/ducminhle1904/smart-trailing-bot/internal/broker/bybit"
	"github.com/ducminhle1904/smart-trailing-bot/internal/config"
	"github.com/ducminhle1904/smart-trailing-bot/internal/monitoring"
	"github.com/ducminhle1904/smart-trailing-bot/internal/trailing"
	"github.com/ducminhle1904/smart-trailing-bot/pkg/reporting"
	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file with trailing parameters (JSON)")
		ticket      = flag.String("ticket", "", "Position ticket to trail (e.g. BTCUSDT-BUY); empty opens the picker")
		symbol      = flag.String("symbol", "", "Restrict the picker to one symbol")
		strategy    = flag.String("strategy", "", "Trailing strategy: "+strings.Join(trailing.GetAvailableStrategies(), ", "))
		demo        = flag.Bool("demo", true, "Use demo trading environment - paper trading (default: true)")
		live        = flag.Bool("live", false, "Actually modify stops on the exchange (default: dry run)")
		envFile     = flag.String("env", ".env", "Environment file path (default: .env)")
		interval    = flag.Duration("interval", 0, "Override poll interval (e.g. 10s)")
		journalFile = flag.String("journal", "", "Write the session journal to this file (.csv or .xlsx)")
		metricsPort = flag.Int("metrics-port", 0, "Serve Prometheus metrics on this port (0 disables)")
		closeOnExit = flag.Bool("close-on-exit", false, "Close the position at market when shut down by a signal")
	)
	flag.Parse()

	// Load environment variables from .env file
	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: Could not load .env file (%v), checking environment variables...", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, *strategy, *demo, *live, *interval, *journalFile, *metricsPort)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.APISecret,
		Category:  cfg.Exchange.Category,
		Testnet:   cfg.Exchange.Testnet,
		Demo:      cfg.Exchange.Demo,
	})

	fmt.Println("🛡️ Smart Trailing Bot Starting...")
	fmt.Printf("📊 Strategy: %s - %s\n", cfg.Trailing.Strategy, trailing.GetStrategyDescription(cfg.Trailing.Strategy))
	fmt.Printf("⏰ Poll interval: %s\n", cfg.Trailing.CheckInterval)
	fmt.Printf("🔧 Environment: %s\n", client.GetEnvironment())
	fmt.Printf("🧪 Dry Run: %v\n", cfg.DryRun)
	fmt.Println(strings.Repeat("=", 51))

	pos, err := resolvePosition(client, *ticket, *symbol, cfg.CommentTag)
	if err != nil {
		log.Fatalf("Failed to select a position: %v", err)
	}

	trailBot, err := bot.NewTrailBot(cfg, client, pos)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if cfg.Monitoring.MetricsPort > 0 {
		go serveMetrics(cfg.Monitoring.MetricsPort)
	}

	if err := trailBot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	// Wait for shutdown signal or natural end (position closed)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		fmt.Println("\n🛑 Shutdown signal received...")
		trailBot.Stop()
		if *closeOnExit {
			closeAtMarket(client, cfg, pos.Ticket)
		}
	case <-trailBot.Done():
		fmt.Println("\n🏁 Position closed, session over")
	}

	reporting.PrintSessionSummary(trailBot.Journal())

	if cfg.Reporting.JournalFile != "" {
		if err := reporting.WriteJournal(trailBot.Journal(), cfg.Reporting.JournalFile); err != nil {
			log.Printf("⚠️ Failed to write journal: %v", err)
		} else {
			fmt.Printf("📝 Journal written to %s\n", cfg.Reporting.JournalFile)
		}
	}

	fmt.Println("✅ Bot stopped successfully")
}

// applyFlags lets CLI flags override file and env configuration
func applyFlags(cfg *config.Config, strategy string, demo, live bool, interval time.Duration, journalFile string, metricsPort int) {
	if strategy != "" {
		cfg.Trailing.Strategy = strategy
	}
	cfg.Exchange.Demo = demo
	cfg.DryRun = !live
	if interval > 0 {
		cfg.Trailing.CheckInterval = interval
	}
	if journalFile != "" {
		cfg.Reporting.JournalFile = journalFile
	}
	if metricsPort > 0 {
		cfg.Monitoring.MetricsPort = metricsPort
	}
}

// closeAtMarket flattens the trailed position on shutdown when asked to
func closeAtMarket(client *bybit.Client, cfg *config.Config, ticket string) {
	if cfg.DryRun {
		fmt.Printf("🧪 DRY RUN: would close %s at market\n", ticket)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pos, err := client.GetPosition(ctx, ticket)
	if err != nil {
		log.Printf("⚠️ Could not fetch %s for closing: %v", ticket, err)
		return
	}
	if pos == nil {
		// Already flat
		return
	}
	if err := client.ClosePosition(ctx, pos); err != nil {
		log.Printf("⚠️ Failed to close %s: %v", ticket, err)
		return
	}
	fmt.Printf("🔐 Closed %s at market\n", ticket)
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}

// resolvePosition returns the position to trail: the one named by
// -ticket, or an interactive choice among the open positions.
func resolvePosition(client *bybit.Client, ticket, symbol, commentTag string) (*types.Position, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if ticket != "" {
		pos, err := client.GetPosition(ctx, ticket)
		if err != nil {
			return nil, err
		}
		if pos == nil {
			return nil, fmt.Errorf("no open position with ticket %s", ticket)
		}
		return pos, nil
	}

	positions, err := client.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open positions: %w", err)
	}

	var candidates []types.Position
	for _, pos := range positions {
		if symbol != "" && !strings.EqualFold(pos.Symbol, symbol) {
			continue
		}
		if commentTag != "" && !strings.Contains(pos.Comment, commentTag) {
			continue
		}
		candidates = append(candidates, pos)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no open positions match the filters")
	}
	if len(candidates) == 1 {
		fmt.Printf("📍 Trailing the only matching position: %s\n", candidates[0].Ticket)
		return &candidates[0], nil
	}

	return pickPosition(candidates)
}

// pickPosition renders the open positions and asks the user to choose one
func pickPosition(positions []types.Position) (*types.Position, error) {
	fmt.Println("\n📋 Open positions:")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Ticket", "Symbol", "Side", "Volume", "Entry", "Price", "Stop", "Profit"})
	for i, pos := range positions {
		stop := "-"
		if pos.HasStopLoss() {
			stop = fmt.Sprintf("%.5f", pos.StopLoss)
		}
		t.AppendRow(table.Row{
			i + 1, pos.Ticket, pos.Symbol, pos.Side,
			fmt.Sprintf("%.4f", pos.Volume),
			fmt.Sprintf("%.5f", pos.EntryPrice),
			fmt.Sprintf("%.5f", pos.CurrentPrice),
			stop,
			fmt.Sprintf("%+.2f", pos.Profit),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Print("\nSelect a position (number or ticket): ")
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	input = strings.TrimSpace(input)

	if idx, err := strconv.Atoi(input); err == nil {
		if idx < 1 || idx > len(positions) {
			return nil, fmt.Errorf("selection %d out of range", idx)
		}
		return &positions[idx-1], nil
	}

	for i := range positions {
		if strings.EqualFold(positions[i].Ticket, input) {
			return &positions[i], nil
		}
	}
	return nil, fmt.Errorf("no position matches %q", input)
}

// serveMetrics exposes Prometheus metrics for scraping
func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("📈 Metrics available at http://localhost%s/metrics\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("⚠️ Metrics server stopped: %v", err)
	}
}
