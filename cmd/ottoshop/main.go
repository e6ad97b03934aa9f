// OttoShop is a conversational grocery-ordering assistant: it prices a
// shopping list at four UK supermarkets and walks through checkout.
//
// Usage:
//
//	ottoshop chat                 interactive REPL
//	ottoshop serve                HTTP API
//	ottoshop compare <items...>   one-off price comparison
//	ottoshop price <store> <items...>
//	ottoshop catalog
package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoshop/internal/agent"
	"github.com/hammamikhairi/ottoshop/internal/config"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/extract"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

var (
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "ottoshop",
	Short: "Compare grocery prices across Sainsbury's, Tesco, Asda and Waitrose, then order",
	Long: `OttoShop prices a shopping list at four UK supermarkets, shows the cheapest
and fastest options, and takes the order through checkout.

With LUA_API_KEY and LUA_AGENT_ID set it talks to the hosted shopping agent;
otherwise a built-in agent answers from the local price catalog.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.BoolVar(&verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&quiet, "quiet", false, "disable all logging")
	pf.StringVar(&logFile, "log-file", "", "file to write logs to (\"stderr\" for the console)")

	rootCmd.AddCommand(chatCmd, serveCmd, compareCmd, priceCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command shares.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	tools *agent.Tools
	close func()
}

// newApp loads the config and opens the log. defaultToFile sends logs to
// the configured file unless --log-file says otherwise, so the REPL stays
// clean.
func newApp(defaultToFile bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}

	path := logFile
	if path == "" && defaultToFile {
		path = cfg.Log.File
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" && path != "stderr" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	// Third-party code logging through the standard logger goes to the
	// same place.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(level, out)
	log.Debug("config: %s", cfg)

	return &app{
		cfg:   cfg,
		log:   log,
		tools: agent.NewTools(nil, nil),
		close: func() {
			_ = log.Sync()
			closeFn()
		},
	}, nil
}

// extractor reads agent replies with the configured fallbacks.
func (a *app) extractor() *extract.Extractor {
	var opts []extract.Option
	if !a.cfg.Extract.TextFallback {
		a.log.Info("extract: text fallback disabled")
		opts = append(opts, extract.WithoutTextFallback())
	}
	return extract.New(a.log, opts...)
}

// backend returns the agent the config asks for.
func (a *app) backend() domain.AgentBackend {
	if a.cfg.Backend == config.BackendRemote {
		ac := a.cfg.Agent
		a.log.Info("agent: remote %s (agent %s)", ac.URL, ac.AgentID)
		return agent.NewClient(ac.URL, ac.APIKey, ac.AgentID, a.log,
			agent.WithChannel(ac.Channel),
			agent.WithHTTPTimeout(ac.Timeout),
			agent.WithRetry(ac.Retries, 500*time.Millisecond),
		)
	}
	a.log.Info("agent: local (set %s and %s for the hosted agent)", config.EnvAPIKey, config.EnvAgentID)
	return agent.NewLocal(a.tools, a.log)
}
