package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"docfront/internal/app"
	"docfront/internal/client"
	"docfront/internal/config"
	"docfront/internal/form"
	"docfront/internal/logging"
	"docfront/internal/notify"
	"docfront/internal/store"
	"docfront/internal/table"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "docfront",
	Short: "Document signing frontend",
	Long: `docfront lists, creates, edits and deletes documents held by a
remote signing API. Run "docfront serve" for the browser UI, or use the
list/show/create/update/delete commands from a terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the document API")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = v.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = v.BindEnv("api_url", "DOCFRONT_API_URL", "API_URL")
	_ = v.BindEnv("json", "DOCFRONT_JSON")
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(mockAPICmd())
}

// frontend is the set of components shared by the web UI and the CLI.
type frontend struct {
	cfg   *config.AppConfig
	log   *logrus.Logger
	api   *client.Client
	inbox *notify.Inbox
	store *store.Store
	form  *form.Controller
	table *table.View
	coord *app.Coordinator
}

func newFrontend(ctx context.Context, log *logrus.Logger, dispatch form.Dispatcher, hooks ...notify.Hook) *frontend {
	cfg := config.FromViper(v)
	fe := &frontend{
		cfg:   cfg,
		log:   log,
		api:   client.New(cfg.API.BaseURL),
		inbox: notify.NewInbox(cfg.InboxSize),
	}
	hooks = append([]notify.Hook{fe.inbox, logging.Hook(log)}, hooks...)
	fe.store = store.New(fe.api, store.WithHooks(hooks...))
	fe.form = form.New(fe.store, form.WithDispatcher(dispatch))
	fe.table = table.New(fe.store)
	fe.coord = app.NewCoordinator(ctx, fe.store, fe.form, fe.table, dispatch)
	return fe
}

// cliLogger keeps stdout free for command output.
func cliLogger() *logrus.Logger {
	cfg := config.FromViper(v)
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Format = "text"
	return logging.NewWithWriter(cfg.Log, os.Stderr)
}

func printJSON(x any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(x)
}
