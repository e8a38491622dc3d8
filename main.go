// main.go - Main entry point for the Flick Engine pedal host

/*
░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀
░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀
░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀

(c) 2025 - 2026 Flick Audio
https://github.com/flickaudio/FlickEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m░█▀▀░█░░░▀█▀░█▀▀░█░█░░░█▀▀░█▀█░█▀▀░▀█▀░█▀█░█▀▀\033[0m\n\033[38;2;255;110;147m░█▀▀░█░░░░█░░█░░░█▀▄░░░█▀▀░█░█░█░█░░█░░█░█░█▀▀\033[0m\n\033[38;2;255;200;147m░▀░░░▀▀▀░▀▀▀░▀▀▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀▀▀\033[0m")
	fmt.Println("\nReverb, tremolo and delay with tap tempo, in a software pedal.")
	fmt.Println("(c) 2025 - 2026 Flick Audio")
	fmt.Println("https://github.com/flickaudio/FlickEngine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	backend := flag.String("backend", "", "Audio backend override: oto or none")
	logLevel := flag.String("loglevel", "", "Log level override: debug, info, warn, error")
	showFeatures := flag.Bool("features", false, "Print compiled features and exit")
	noTerminal := flag.Bool("no-terminal", false, "Run without the keyboard control frontend")
	flag.Parse()

	if *showFeatures {
		printFeatures()
		return
	}

	boilerPlate()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := setupLogger(level, os.Stderr)

	engine, err := NewPedalEngine(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}

	if err := engine.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start pedal engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if *noTerminal {
		<-sigCh
		return
	}

	host := NewTerminalHost(engine.Controls())
	host.Start()
	defer host.Stop()

	select {
	case <-sigCh:
	case <-host.QuitRequested():
	}
}
