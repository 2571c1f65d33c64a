// ABOUTME: Entry point for the simple CRM CLI, TUI and MCP server
// ABOUTME: Loads config, opens the storage slot and routes to subcommands
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harperreed/simplecrm/cli"
	"github.com/harperreed/simplecrm/config"
	"github.com/harperreed/simplecrm/logging"
	"github.com/harperreed/simplecrm/storage"
	"github.com/harperreed/simplecrm/store"
	"github.com/harperreed/simplecrm/tui"
)

const version = "0.1.0"

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	showVersion := flag.Bool("version", false, "Show version and exit")
	backend := flag.String("backend", cfg.Backend, "Storage backend: file, badger, bolt, sqlite or memory")
	dataDir := flag.String("data-dir", cfg.DataDir, "Data directory")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("simplecrm version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	logger := logging.New(logging.Config{Level: *logLevel, Encoding: cfg.LogEncoding})
	defer func() { _ = logger.Sync() }()

	slot, err := storage.Open(storage.Options{Backend: *backend, DataDir: *dataDir})
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("backend", *backend), zap.Error(err))
	}
	defer func() { _ = slot.Close() }()

	s, err := openStore(slot, cfg.StorageKey, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, s, logger, args); err != nil {
		stop()
		_ = slot.Close()
		_ = logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore loads the document from slot. On failure the slot is closed,
// since the caller exits without running deferred calls.
func openStore(slot storage.Slot, key string, logger *zap.Logger) (*store.Store, error) {
	s, err := store.Open(storage.NewAdapter(slot, key, logger), logger)
	if err != nil {
		_ = slot.Close()
		return nil, err
	}
	return s, nil
}

func run(ctx context.Context, s *store.Store, logger *zap.Logger, args []string) error {
	command, rest := args[0], args[1:]

	switch command {
	case "mcp":
		return cli.MCPCommand(ctx, s, logger, version)
	case "tui":
		return tui.Run(s)
	case "crm":
		return runCRM(s, rest)
	case "report":
		if len(rest) > 0 && rest[0] == "csv" {
			return cli.ReportCSVCommand(s, rest[1:])
		}
		if len(rest) > 0 && rest[0] == "stats" {
			rest = rest[1:]
		}
		return cli.ReportCommand(s, rest)
	case "data":
		return runData(s, rest)
	case "viz":
		if len(rest) == 0 || rest[0] != "pipeline" {
			return fmt.Errorf("viz requires a subcommand: pipeline")
		}
		return cli.VizPipelineCommand(ctx, s, rest[1:])
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

var crmCommands = map[string]func(*store.Store, []string) error{
	"add-contact":     cli.AddContactCommand,
	"list-contacts":   cli.ListContactsCommand,
	"show-contact":    cli.ShowContactCommand,
	"update-contact":  cli.UpdateContactCommand,
	"delete-contact":  cli.DeleteContactCommand,
	"select-contact":  cli.SelectContactCommand,
	"upsert-deal":     cli.UpsertDealCommand,
	"delete-deal":     cli.DeleteDealCommand,
	"list-deals":      cli.ListDealsCommand,
	"add-task":        cli.AddTaskCommand,
	"list-tasks":      cli.ListTasksCommand,
	"toggle-task":     cli.ToggleTaskCommand,
	"delete-task":     cli.DeleteTaskCommand,
	"clear-completed": cli.ClearCompletedCommand,
}

func runCRM(s *store.Store, args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("crm requires a subcommand")
	}
	cmd, ok := crmCommands[args[0]]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown crm command: %s", args[0])
	}
	return cmd(s, args[1:])
}

func runData(s *store.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("data requires a subcommand: export, import or reset")
	}
	switch args[0] {
	case "export":
		return cli.ExportCommand(s, args[1:])
	case "import":
		return cli.ImportCommand(s, args[1:])
	case "reset":
		return cli.ResetCommand(s, args[1:])
	default:
		return fmt.Errorf("unknown data command: %s", args[0])
	}
}

func printUsage() {
	fmt.Printf(`simplecrm v%s - contacts, deals and follow-up tasks in one local document

USAGE:
  simplecrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --backend <name>       Storage backend: file, badger, bolt, sqlite, memory (default: file)
  --data-dir <path>      Data directory (default: ~/.local/share/simplecrm)
  --log-level <level>    debug, info, warn or error (default: warn)

COMMANDS:
  crm                    Contact, deal and task commands
  report [stats|csv]     Pipeline dashboard or deal CSV
  data                   export, import or reset the document
  viz pipeline           Contact → deal → stage graph
  tui                    Interactive terminal UI
  mcp                    Start MCP server on stdio

CRM COMMANDS:
  simplecrm crm add-contact      --name --company --email --phone --notes
  simplecrm crm list-contacts    --query <text> --sort updated|name|company
  simplecrm crm show-contact     [id]  (default: selected contact)
  simplecrm crm update-contact   [flags] <id>
  simplecrm crm delete-contact   <id>
  simplecrm crm select-contact   <id> | --clear

  simplecrm crm upsert-deal      --title <t> [--contact <id>] [--deal <id>]
                                 [--value <n>] [--stage lead|qualified|proposal|won|lost]
                                 [--close-date <date>]
  simplecrm crm delete-deal      --contact <id> <deal-id>
  simplecrm crm list-deals       [--stage <stage>|all] [--contact <id>]

  simplecrm crm add-task         --title <t> [--contact <id>] [--due <date>]
  simplecrm crm list-tasks       [--filter all|pending|done]
  simplecrm crm toggle-task      [--undo] <id>
  simplecrm crm delete-task      <id>
  simplecrm crm clear-completed

DATA COMMANDS:
  simplecrm data export          [--format json|csv] [--output <file>|-]
  simplecrm data import          <file>|-
  simplecrm data reset           [--confirm]

VISUALIZATION:
  simplecrm viz pipeline         [--format dot|svg|png] [--output <file>]

CONFIG:
  %s
  Environment: SIMPLECRM_BACKEND, SIMPLECRM_DATA_DIR, SIMPLECRM_STORAGE_KEY,
               SIMPLECRM_LOG_LEVEL, SIMPLECRM_LOG_ENCODING (a .env file is loaded first)
`, version, config.Path())
}
