// ABOUTME: Entry point for the deepracer-config demo and tooling binary.
// ABOUTME: Runs a client/server exchange over an in-memory side channel.

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/2389/deepracer-config/internal/client"
	"github.com/2389/deepracer-config/internal/config"
	"github.com/2389/deepracer-config/internal/envconfig"
	"github.com/2389/deepracer-config/internal/server"
	"github.com/2389/deepracer-config/internal/sidechannel"
)

const banner = `
     _                                              __ _
  __| | ___  ___ _ __  _ __ __ _  ___ ___ _ __     / _(_) __ _
 / _' |/ _ \/ _ \ '_ \| '__/ _' |/ __/ _ \ '__|   | |_| |/ _' |
| (_| |  __/  __/ |_) | | | (_| | (_|  __/ |      |  _| | (_| |
 \__,_|\___|\___| .__/|_|  \__,_|\___\___|_|      |_| |_|\__, |
                |_|                                      |___/
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "demo":
		err = runDemo(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: deepracer-config <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  demo [-config file]   Run a client/server exchange in-process")
	fmt.Println("  check -config file    Validate a bootstrap config file")
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to bootstrap config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("check requires -config")
	}

	if _, err := config.Load(*configPath); err != nil {
		return err
	}
	color.Green("%s is valid", *configPath)
	return nil
}

func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := fs.String("config", "", "optional bootstrap config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	logger := setupLogger(cfg.Logging)

	area, track, agents, err := cfg.Environment.Build()
	if err != nil {
		return err
	}

	clientEnd, serverEnd := sidechannel.Pipe(logger)
	defer clientEnd.Close()

	srv := server.New(serverEnd, server.Config{
		Area:   area,
		Track:  track,
		Agents: agents,
		Logger: logger,
	})
	defer srv.Stop()

	cli := client.New(clientEnd, client.Config{
		Timeout:          cfg.Client.Timeout,
		MaxRetryAttempts: cfg.Client.MaxRetryAttempts,
		Logger:           logger,
	})
	defer cli.Close()

	green := color.New(color.FgGreen)

	green.Print("  ▶ ")
	gotTrack, err := cli.GetTrack()
	if err != nil {
		return fmt.Errorf("get track: %w", err)
	}
	fmt.Printf("track:    %s (%s), finish line %.2f\n", gotTrack.Name, gotTrack.Direction, gotTrack.FinishLine)

	green.Print("  ▶ ")
	gotArea, err := cli.GetArea()
	if err != nil {
		return fmt.Errorf("get area: %w", err)
	}
	fmt.Printf("area:     game over on %q\n", gotArea.GameOverCondition)

	green.Print("  ▶ ")
	gotAgents, err := cli.GetAgents()
	if err != nil {
		return fmt.Errorf("get agents: %w", err)
	}
	fmt.Printf("agents:   %d registered\n", len(gotAgents))
	for _, a := range gotAgents {
		fmt.Printf("      - %s (%s, %s)\n", a.Name, a.Shell, a.SensorConfigType)
	}

	// Spawn a challenger and flip the game-over rule.
	bot := envconfig.NewAgent()
	bot.Name = "challenger"
	bot.Shell = "deepracer_red"
	if err := cli.SpawnAgent(bot); err != nil {
		return fmt.Errorf("spawn agent: %w", err)
	}

	update := gotArea.Copy()
	update.GameOverCondition = envconfig.GameOverAll
	if err := cli.ApplyArea(update); err != nil {
		return fmt.Errorf("apply area: %w", err)
	}

	green.Print("  ▶ ")
	gotAgents, err = cli.GetAgents()
	if err != nil {
		return fmt.Errorf("get agents: %w", err)
	}
	gotArea, err = cli.GetArea()
	if err != nil {
		return fmt.Errorf("get area: %w", err)
	}
	fmt.Printf("after mutation: %d agents, game over on %q\n", len(gotAgents), gotArea.GameOverCondition)

	color.Green("\ndemo complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
