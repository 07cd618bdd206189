package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickyhof/RowDB"
	"github.com/nickyhof/RowDB/config"
	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

const maxHistory = 1000

// CLI holds the session state
type CLI struct {
	engine      *db.Engine
	prompt      prompter
	out         io.Writer
	buffer      []string
	history     []string
	historyFile string
}

func main() {
	configFile := flag.String("config", config.DefaultFile, "TOML configuration file")
	dbPath := flag.String("db", "", "Database directory (overrides config)")
	dbName := flag.String("dbName", "", "Database name used when creating a new database")
	sqlFile := flag.String("sqlFile", "", "SQL script to execute (non-interactive); local path, http(s):// or s3://")
	userName := flag.String("name", "RowDB", "User name for catalog history")
	userEmail := flag.String("email", "cli@rowdb.local", "User email for catalog history")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		fatal(err)
	}
	if err := cfg.LoadEnv(); err != nil {
		fatal(err)
	}
	if *dbName != "" {
		cfg.Database.Name = *dbName
	}

	logger, logFile, err := cfg.Log.Open()
	if err != nil {
		fatal(err)
	}
	defer logFile.Close()

	path := *dbPath
	if path == "" {
		root, err := config.ProjectRoot()
		if err != nil {
			fatal(err)
		}
		path = cfg.DatabasePath(root)
	}

	instance, err := RowDB.OpenPath(path, cfg.Database.Name, cfg.Database.History)
	if err != nil {
		fatal(err)
	}
	defer instance.Close()
	instance.Logger = logger
	instance.S3 = cfg.S3.Remote()
	instance.Debug = cfg.Log.Debug()

	engine := instance.Engine(core.Identity{
		Name:  *userName,
		Email: *userEmail,
	})
	logger.Printf("[INFO] opened database %s at %s", cfg.Database.Name, path)

	if *sqlFile != "" {
		if err := newCLI(engine, nil, os.Stdout).importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			instance.Close()
			os.Exit(1)
		}
		return
	}

	printBanner(path)

	cli := newCLI(engine, newPrompter(), os.Stdout)
	cli.historyFile = getHistoryPath()
	cli.loadHistory()
	defer cli.prompt.Close()

	cli.run()
	cli.saveHistory()
}

func fatal(err error) {
	fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
	os.Exit(1)
}

func newCLI(engine *db.Engine, prompt prompter, out io.Writer) *CLI {
	return &CLI{
		engine:  engine,
		prompt:  prompt,
		out:     out,
		history: make([]string, 0),
	}
}

func printBanner(path string) {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("RowDB v%s", Version)
	padding := bannerWidth - len(versionLine) - 2
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║     Embedded SQL Storage Engine       ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Printf("%sDatabase: %s%s\n", SuccessColor, path, ResetColor)
	fmt.Println("Type .help for commands, exit or .quit to leave")
	fmt.Println()
}

func (cli *CLI) run() {
	for {
		input, err := cli.prompt.Prompt(cli.getPrompt(len(cli.buffer) > 0))
		if err != nil {
			fmt.Fprintf(cli.out, "\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		if cli.handleLine(input) {
			fmt.Fprintf(cli.out, "%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}
	}
}

// handleLine feeds one line of input into the session and reports whether
// the session should end. Lines accumulate until the buffer ends with ';';
// the buffer is then executed and reset whatever the outcome.
func (cli *CLI) handleLine(input string) bool {
	trimmed := strings.TrimSpace(input)

	if strings.EqualFold(trimmed, "exit") {
		return true
	}

	if len(cli.buffer) == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return cli.handleCommand(trimmed)
		}
	}

	cli.buffer = append(cli.buffer, trimmed)
	statement := strings.TrimSpace(strings.Join(cli.buffer, "\n"))
	if !strings.HasSuffix(statement, ";") {
		return false
	}
	cli.buffer = cli.buffer[:0]

	cli.addToHistory(strings.Join(strings.Fields(statement), " "))
	cli.execute(statement)
	return false
}

func (cli *CLI) execute(statement string) {
	result, err := cli.engine.Execute(statement)
	if err != nil {
		cli.printError(err)
		return
	}
	if result != nil {
		result.Render(cli.out)
	}
}

func (cli *CLI) printError(err error) {
	fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
}

func (cli *CLI) printUsage(usage string) {
	fmt.Fprintf(cli.out, "%s✗ Usage: %s%s\n", ErrorColor, usage, ResetColor)
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return "   ...> "
	}
	return fmt.Sprintf("rowdb (%s)> ", cli.engine.Database.Metadata().Name)
}

// handleCommand runs a dot-command and reports whether the session should end.
func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	args := parts[1:]

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		return true

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.engine.Tables().Render(cli.out)

	case ".describe", ".schema":
		if len(args) != 1 {
			cli.printUsage(".describe <table>")
			break
		}
		cli.renderQuery(cli.engine.Describe(args[0]))

	case ".dump":
		if len(args) != 1 {
			cli.printUsage(".dump <table>")
			break
		}
		cli.renderQuery(cli.engine.Dump(args[0]))

	case ".import":
		if len(args) != 1 {
			cli.printUsage(".import <file.sql|http(s)://...|s3://...>")
			break
		}
		if err := cli.importFile(args[0]); err != nil {
			cli.printError(err)
		}

	case ".export":
		if len(args) != 2 {
			cli.printUsage(".export <table> <file.jsonl|s3://...>")
			break
		}
		cli.renderQuery(cli.engine.Export(context.Background(), args[0], args[1]))

	case ".log":
		cli.printLog()

	case ".snapshot":
		if len(args) != 1 {
			cli.printUsage(".snapshot <name>")
			break
		}
		cli.snapshot(args[0])

	case ".snapshots":
		cli.printSnapshots()

	case ".history":
		cli.printHistory()

	case ".clear", ".cls":
		fmt.Fprint(cli.out, "\033[H\033[2J")

	case ".version":
		fmt.Fprintf(cli.out, "RowDB version %s\n", Version)

	default:
		fmt.Fprintf(cli.out, "%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return false
}

func (cli *CLI) renderQuery(result db.QueryResult, err error) {
	if err != nil {
		cli.printError(err)
		return
	}
	result.Render(cli.out)
}

func (cli *CLI) printHelp() {
	out := cli.out
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(out, "  .help, .h                Show this help message")
	fmt.Fprintln(out, "  .quit, .exit, exit       Leave the session")
	fmt.Fprintln(out, "  .tables                  List tables")
	fmt.Fprintln(out, "  .describe <table>        Show the columns of a table")
	fmt.Fprintln(out, "  .dump <table>            Show every row of a table")
	fmt.Fprintln(out, "  .import <source>         Execute a SQL script (file, http(s)://, s3://)")
	fmt.Fprintln(out, "  .export <table> <dest>   Write rows as JSON lines (file, s3://)")
	fmt.Fprintln(out, "  .log                     Show catalog history")
	fmt.Fprintln(out, "  .snapshot <name>         Name the current catalog state")
	fmt.Fprintln(out, "  .snapshots               List named catalog states")
	fmt.Fprintln(out, "  .history                 Show input history")
	fmt.Fprintln(out, "  .clear                   Clear the screen")
	fmt.Fprintln(out, "  .version                 Show version info")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s%sSQL Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(out, "  CREATE TABLE <table> (<column> <type> [PRIMARY KEY], ...);")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s%sTypes:%s FLOAT, INTEGER, TEXT, BOOL, UUID\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(out)
}

func (cli *CLI) printLog() {
	if cli.engine.History == nil {
		fmt.Fprintln(cli.out, "Catalog history is disabled")
		return
	}

	log, err := cli.engine.History.Log()
	if err != nil {
		cli.printError(err)
		return
	}
	if len(log) == 0 {
		fmt.Fprintln(cli.out, "No catalog history")
		return
	}

	table := db.NewTable(cli.out)
	table.Header([]string{"Transaction", "When", "Author", "Message"})
	for _, txn := range log {
		table.Row([]string{shortId(txn.Id), txn.When.Format("2006-01-02 15:04:05"), txn.Author, txn.Message})
	}
	table.Render()
}

func (cli *CLI) snapshot(name string) {
	if cli.engine.History == nil {
		fmt.Fprintln(cli.out, "Catalog history is disabled")
		return
	}
	if err := cli.engine.History.Snapshot(name, nil); err != nil {
		cli.printError(err)
		return
	}
	fmt.Fprintf(cli.out, "%s✓ Snapshot %s created%s\n", SuccessColor, name, ResetColor)
}

func (cli *CLI) printSnapshots() {
	if cli.engine.History == nil {
		fmt.Fprintln(cli.out, "Catalog history is disabled")
		return
	}

	names, snapshots, err := cli.engine.History.Snapshots()
	if err != nil {
		cli.printError(err)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(cli.out, "No snapshots")
		return
	}

	table := db.NewTable(cli.out)
	table.Header([]string{"Snapshot", "Transaction", "When", "Message"})
	for _, name := range names {
		txn := snapshots[name]
		table.Row([]string{name, shortId(txn.Id), txn.When.Format("2006-01-02 15:04:05"), txn.Message})
	}
	table.Render()
}

func shortId(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)
	if cli.prompt != nil {
		cli.prompt.AppendHistory(cmd)
	}

	if len(cli.history) > maxHistory {
		cli.history = cli.history[len(cli.history)-maxHistory:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Fprintln(cli.out, "No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Fprintf(cli.out, "  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rowdb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.addToHistory(scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	for _, entry := range cli.history {
		_, _ = file.WriteString(entry + "\n")
	}
}

// importFile executes every statement of a script and prints a summary.
func (cli *CLI) importFile(source string) error {
	result, err := cli.engine.Import(context.Background(), source)
	if result.StatementsRun > 0 {
		fmt.Fprintf(cli.out, "%s✓ %d statement(s) executed%s\n", SuccessColor, result.StatementsRun, ResetColor)
	}
	if err != nil {
		return err
	}
	result.Render(cli.out)
	return nil
}
