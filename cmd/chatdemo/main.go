package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/wolfman30/mozbe-site/internal/app/bootstrap"
	"github.com/wolfman30/mozbe-site/internal/chatdemo"
	appconfig "github.com/wolfman30/mozbe-site/internal/config"
	"github.com/wolfman30/mozbe-site/internal/site"
	"github.com/wolfman30/mozbe-site/internal/terminal"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	catalog, err := chatdemo.LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load transcripts: %v\n", err)
		os.Exit(1)
	}

	connectFlag := flag.String("connect", "", "Stream from a running site service (e.g. ws://localhost:8080/chat/ws)")
	verticalFlag := flag.String("vertical", bootstrap.ResolveVertical(cfg, catalog, nil), "Transcript vertical (nails, medspa, dental, salon)")
	reducedFlag := flag.Bool("reduced-motion", false, "Show each message at once instead of typing it out")
	logFileFlag := flag.String("log", "chatdemo.log", "Log file path (the terminal belongs to the UI)")
	flag.Parse()

	logFile, err := os.OpenFile(*logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.NewWithWriter(cfg.LogLevel, logFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics, skipped := site.ParseMetrics(cfg.SiteMetrics)
	if len(skipped) > 0 {
		logger.Warn("site metrics with invalid targets will not animate", "labels", skipped)
	}

	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	var driver terminal.Driver
	if *connectFlag != "" {
		url := *connectFlag
		if *verticalFlag != "" && !strings.Contains(url, "vertical=") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "vertical=" + *verticalFlag
		}
		remote, err := terminal.DialRemote(ctx, url, *reducedFlag, send, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		driver = remote
	} else {
		transcript, ok := catalog.Get(*verticalFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown vertical %q (have %s)\n", *verticalFlag, strings.Join(catalog.Verticals(), ", "))
			os.Exit(1)
		}
		driver = terminal.NewLocalDriver(transcript, chatdemo.Config{
			Timing:        bootstrap.DemoTiming(cfg),
			ReducedMotion: *reducedFlag,
		}, send, logger)
	}
	defer driver.Close()

	p = tea.NewProgram(terminal.NewModel(ctx, driver, metrics), tea.WithAltScreen())
	terminal.StartCounters(ctx, metrics, chatdemo.SystemClock(), send)

	logger.Info("chatdemo: starting", "vertical", *verticalFlag, "remote", *connectFlag != "")
	if _, err := p.Run(); err != nil {
		logger.Error("chatdemo: program failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
