package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	boomerang "github.com/johneastman/boomerang"
)

const (
	appName     = "boomerang"
	historyFile = ".boomerang_history"
	prompt      = ">> "

	platformCLI  = "cli"
	platformREPL = "repl"
)

var banner = fmt.Sprintf("Boomerang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", boomerang.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "serve":
		os.Exit(cmdServe(os.Args[2:]))
	case "visualize":
		os.Exit(cmdVisualize(os.Args[2:]))
	case "version":
		fmt.Println(boomerang.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Boomerang %s

Usage:
  %s run <file%s>            Run a script.
  %s repl                    Start the REPL.
  %s serve [config.yaml]     Serve the web editor.
  %s visualize <file%s>      Print the script's AST as Graphviz DOT.
  %s version                 Print the version.

`, boomerang.Version,
		appName, boomerang.FileExtension,
		appName,
		appName,
		appName, boomerang.FileExtension,
		appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file%s>\n", appName, boomerang.FileExtension)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := boomerang.NewInterpreter(boomerang.WithPlatform(platformCLI))
	results := ip.Evaluate(string(src))

	// A failed run collapses to a single Error value; surface it on stderr.
	if len(results) == 1 {
		if e, ok := results[0].(*boomerang.Error); ok {
			fmt.Fprintln(os.Stderr, red(e.Message))
			return 1
		}
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)
	boomerang.EnableColor = true

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := boomerang.NewInterpreter(boomerang.WithPlatform(platformREPL))

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		results := ip.EvaluateLine(line)
		fmt.Println(boomerang.FormatResults(results))
		ln.AppendHistory(line)
	}
}

// -----------------------------------------------------------------------------
// serve
// -----------------------------------------------------------------------------

func cmdServe(args []string) int {
	configPath := "boomerang.yaml"
	if len(args) > 0 {
		configPath = args[0]
	}

	cfg, err := boomerang.LoadServerConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	fmt.Printf("Boomerang %s serving on %s\n", boomerang.Version, cfg.Addr)
	if err := boomerang.NewServer(cfg).ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// visualize
// -----------------------------------------------------------------------------

func cmdVisualize(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s visualize <file%s>\n", appName, boomerang.FileExtension)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	statements, err := boomerang.Parse(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(boomerang.WrapErrorWithSource(err, string(src)).Error()))
		return 1
	}

	fmt.Print(boomerang.VisualizeAST(statements))
	return 0
}
