package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"perfdatad/internal/daemon"
	"perfdatad/internal/global"
	"perfdatad/internal/lifecycle"
	"perfdatad/internal/logctx"
	"perfdatad/internal/setup"
)

func main() {
	args := os.Args
	commandFlags := flag.NewFlagSet(args[0], flag.ExitOnError)
	configPath := commandFlags.String("config", global.DefaultConfigPath, "Path to the daemon configuration file")
	requestedLogLevel := commandFlags.Int("verbosity", global.VerbosityStandard, "Log verbosity (0=quiet .. 5=debug)")

	commandFlags.Usage = func() { printHelp(commandFlags) }
	if len(args) < 2 {
		printHelp(commandFlags)
		os.Exit(1)
	}

	// Retrieve command and args
	command := args[1]
	commandFlags.Parse(args[2:])

	// Setting global logging
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logctx.NewLogger("global", *requestedLogLevel, ctx.Done())
	ctx = logctx.WithLogger(ctx, logger)
	logctx.StartWatcher(logger, os.Stdout)

	// Process commands
	switch command {
	case "run":
		runMode(ctx, *configPath)
	case "configure":
		err := setup.InstallConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configure failed: %v\n", err)
			os.Exit(1)
		}
	case "version":
		if len(args) > 2 && (args[2] == "--verbosity" || args[2] == "-v") {
			fmt.Printf("perfdatad %s\n", global.ProgVersion)
			fmt.Printf("Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
		} else {
			fmt.Println(global.ProgVersion)
		}
	default:
		printHelp(commandFlags)
		os.Exit(1)
	}

	// Finish up any stdout writes for global logger
	cancel()
	logger.Wake()
	logger.Wait()
}

func runMode(ctx context.Context, configPath string) {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Logging.Level != 0 {
		logctx.SetLogLevel(ctx, cfg.Logging.Level)
	}

	manager := daemon.NewDaemon(configPath)
	err = manager.Start(ctx, cfg)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed starting daemon: %v\n", err)
		os.Exit(1)
	}

	err = lifecycle.NotifyReady(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", err)
	}

	// Blocks until an exit signal arrives
	lifecycle.SignalHandler(ctx, manager)
}

func printHelp(commandFlags *flag.FlagSet) {
	fmt.Printf("Usage: %s <command> [options]\n\n", global.ProgBaseName)
	fmt.Printf("Commands:\n")
	fmt.Printf("  run        Start the perfdata writer daemon\n")
	fmt.Printf("  configure  Write a template configuration file\n")
	fmt.Printf("  version    Print the program version\n\n")
	fmt.Printf("Options:\n")
	commandFlags.PrintDefaults()
}
