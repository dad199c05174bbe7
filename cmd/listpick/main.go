// Copyright 2025 The ListPick Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the list picking server, the debug CLI and the TUI.

Note: This is a BETA release. APIs and functionality may rapidly change.

ListPick turns a plain list of (label, value) pairs into a searchable
picker. Labels are split into tokens, expanded with synonym aliases and
stored in a per first character index, so a host can either filter a
visible candidate list as the user types or jump straight to the first
option a few typed characters name.

# Usage

Start the IPC server with default settings:

	listpick

Preload an option list as handle "default" and enable debug logging:

	listpick -options countries.toml -d

Try a list interactively in the debug CLI or the TUI:

	listpick -c -options countries.txt -limit 5
	listpick -t -options countries.yaml -mode buffered

# Option Lists

Option lists are read by extension: .txt/.tsv with one "label<TAB>value"
per line, .toml with [[option]] tables, .yaml/.yml with a sequence of
{label, value} maps, and .msgpack/.bin with a msgpack array of the same.

# Configuration

Runtime configuration is managed through a TOML file, created with defaults
if it doesn't exist:

	[engine]
	mode = "live"
	filter_mode = ""
	buffer_timeout_ms = 1500
	cache_size = 256

	[tokenizer]
	stop_words = ["of", "the", "and"]
	default_synonyms = true
	synonyms_file = ""

	[synonyms]
	"united kingdom" = ["uk", "britain"]

	[server]
	max_query = 60
	max_candidates = 64

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package
server for the full list of actions:

	{"id": "1", "action": "attach", "handle": "country", "options": [...]}
	{"id": "2", "action": "key", "handle": "country", "key": "a"}

Committed choices are pushed as change events before the response of the
request that caused them.

# Command Line Flags

	-version  Show current version
	-d        Enable debug mode with detailed logging
	-c        Run the debug CLI instead of the server
	-t        Run the TUI instead of the server
	-options  Option list file to attach as handle "default"
	-config   Path to a custom config file
	-mode     Picker mode for the preloaded list: live or buffered
	-filter   Filter mode: prefix or substring
	-timeout  Buffered query timeout in milliseconds
	-limit    Number of candidates the CLI and TUI print
	-no-filter
	          Pass separator only queries through (CLI, DBG only)
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/listpick/internal/cli"
	"github.com/bastiangx/listpick/internal/logger"
	"github.com/bastiangx/listpick/internal/tui"
	"github.com/bastiangx/listpick/internal/utils"
	"github.com/bastiangx/listpick/pkg/choices"
	"github.com/bastiangx/listpick/pkg/config"
	"github.com/bastiangx/listpick/pkg/index"
	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/bastiangx/listpick/pkg/server"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	Version = "0.3.0-beta"
	AppName = "listpick"
	gh      = "https://github.com/bastiangx/listpick"

	defaultHandle = "default"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow between the server, CLI and TUI.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	tuiMode := flag.Bool("t", false, "Run the interactive TUI")
	optionsFile := flag.String("options", "", "Option list file (.txt, .tsv, .toml, .yaml, .yml, .msgpack, .bin)")
	configFile := flag.String("config", "", "Path to custom config file")
	mode := flag.String("mode", "", "Picker mode: live or buffered (default from config)")
	filterMode := flag.String("filter", "", "Filter mode: prefix or substring (default from config)")
	timeout := flag.Int("timeout", 0, "Buffered query timeout in ms (default from config)")
	limit := flag.Int("limit", 0, "Number of candidates to print (default from config)")
	noFilter := flag.Bool("no-filter", false, "Disable query filtering (DBG only)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	if !*tuiMode {
		sigHandler()
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to initialize path resolver: %v", err)
		log.Print("Either env is not set or system is not supported")
		os.Exit(1)
	}
	log.Debug("Runtime", "info", pathResolver.GetRuntimeInfo())

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	pickerCfg, err := appConfig.PickerConfig()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := applyFlags(&pickerCfg, *mode, *filterMode, *timeout); err != nil {
		log.Fatalf("Invalid flag: %v", err)
	}
	if *limit <= 0 {
		*limit = appConfig.CLI.DefaultLimit
	}

	var items []picker.Item
	if *optionsFile != "" {
		path := pathResolver.GetOptionsFile(*optionsFile)
		if items, err = choices.Load(path); err != nil {
			log.Fatalf("Failed to load option list: %v", err)
		}
	} else if *cliMode || *tuiMode {
		log.Warn("No option list specified, running with an empty list...")
	}

	if *cliMode || *tuiMode {
		p := picker.Attach(items, -1, pickerCfg)
		log.Debug("Attached option list", "options", len(items), "mode", pickerCfg.Mode)

		if *tuiMode {
			runTUI(p, *limit)
			return
		}

		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(p, os.Stderr, appConfig.Server.MaxQuery, *limit, *noFilter)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv, err := server.NewServer(appConfig, configPath)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	if *optionsFile != "" {
		srv.Attach(defaultHandle, items, -1, pickerCfg)
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		showStartupInfo(len(items), configPath)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// applyFlags overrides the configured picker settings with command line
// values. Empty or zero values keep the config.
func applyFlags(cfg *picker.Config, mode, filterMode string, timeoutMs int) error {
	if mode != "" {
		m, err := picker.ParseMode(mode)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	if filterMode != "" {
		fm, err := index.ParseMatchMode(filterMode)
		if err != nil {
			return err
		}
		cfg.FilterMode = fm
	}
	if timeoutMs > 0 {
		cfg.BufferTimeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return nil
}

func runTUI(p *picker.Picker, limit int) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		log.Fatal("TUI mode needs a terminal on stdout")
	}
	final, err := tea.NewProgram(tui.New(p, limit)).Run()
	if err != nil {
		log.Fatalf("TUI error: %v", err)
	}
	log.Debugf("TUI exited: %T", final)
	if opt, ok := p.Selected(); ok {
		fmt.Println(opt.Value)
	}
}

func printVersion() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ ListPick ] Type-ahead and live filtering for option lists")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(preloaded int, configPath string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	banner := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).
		Border(lipgloss.NormalBorder()).Padding(0, 1)
	fmt.Fprintln(os.Stderr, banner.Render(" ListPick "))
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	if preloaded > 0 {
		log.Infof("handle %q: %d options", defaultHandle, preloaded)
	}
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
