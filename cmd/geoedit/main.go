package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"geoedit/internal/logger"
	"geoedit/internal/tui"
)

func main() {
	logPath := flag.String("log", "", "write structured logs to this file")
	level := flag.String("level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	// logging goes to a file; stdout belongs to the TUI
	var out io.Writer
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := logger.Build(logger.Config{Level: *level, Component: "geoedit"}, out)

	var m tea.Model
	if flag.NArg() > 0 {
		m = tui.NewWithPath(log, flag.Arg(0))
	} else {
		m = tui.New(log)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
