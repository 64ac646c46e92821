package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"subprobe/internal/api"
	"subprobe/internal/config"
	"subprobe/internal/enum"
	"subprobe/internal/logging"
	"subprobe/internal/report"
	"subprobe/internal/resolver"
	"subprobe/internal/store"
	"subprobe/internal/wildcard"
	"subprobe/internal/wordlist"
)

const VERSION = "2.0.0"

type options struct {
	cfg         config.Configuration
	configPath  string
	dnsServers  string
	showVersion bool
}

// parseFlags parses args twice when -config is given: once to find the file,
// and again on top of the file's values so explicit flags win.
func parseFlags(args []string, errOut io.Writer) (*options, error) {
	opts, err := parseWith(config.Default(), args, errOut)
	if err != nil || opts.configPath == "" {
		return opts, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	return parseWith(cfg, args, errOut)
}

func parseWith(cfg config.Configuration, args []string, errOut io.Writer) (*options, error) {
	opts := &options{
		cfg:        cfg,
		dnsServers: strings.Join(cfg.Network.DNSServers, ","),
	}
	c := &opts.cfg

	fs := flag.NewFlagSet("subprobe", flag.ContinueOnError)
	fs.SetOutput(errOut)

	// Basic flags
	fs.StringVar(&c.Input.Domain, "d", c.Input.Domain, "Target domain (required)")
	fs.StringVar(&c.Input.Wordlist, "w", c.Input.Wordlist, "Wordlist file (default: built-in list)")
	fs.IntVar(&c.General.Threads, "c", c.General.Threads, "Maximum concurrent lookups")
	fs.IntVar(&c.General.Timeout, "timeout", c.General.Timeout, "Per-lookup timeout in seconds")
	fs.StringVar(&c.Output.File, "o", c.Output.File, "Output file (txt, json, csv or html)")
	fs.BoolVar(&c.Output.Silent, "silent", c.Output.Silent, "Print only discovered subdomains")
	fs.BoolVar(&c.Network.IncludeWildcard, "include-wildcard", c.Network.IncludeWildcard, "Keep results matching the wildcard answer")

	// Resolution
	fs.StringVar(&opts.dnsServers, "r", opts.dnsServers, "Comma-separated DNS servers (e.g. 8.8.8.8,1.1.1.1:53)")
	fs.BoolVar(&c.Network.IPv6, "6", c.Network.IPv6, "Also query AAAA records when using -r")
	fs.IntVar(&c.General.Retries, "retries", c.General.Retries, "Retries for failed lookups")
	fs.Float64Var(&c.General.RateLimit, "rate", c.General.RateLimit, "Maximum queries per second (0 = unlimited)")

	// Output and logging
	fs.BoolVar(&c.Output.Progress, "progress", c.Output.Progress, "Show a progress bar")
	fs.BoolVar(&c.Output.NoColor, "no-color", c.Output.NoColor, "Disable colored output")
	fs.IntVar(&c.General.Verbose, "v", c.General.Verbose, "Verbosity level (0-3)")
	fs.StringVar(&c.General.LogDir, "log-dir", c.General.LogDir, "Directory for log files")

	// Integrations
	fs.StringVar(&c.Features.Database, "db", c.Features.Database, "SQLite database for scan history")
	fs.IntVar(&c.Features.APIPort, "api-port", c.Features.APIPort, "Serve live results on this port (0 = disabled)")
	fs.StringVar(&c.Notifications.Slack, "slack", c.Notifications.Slack, "Slack webhook URL for notifications")

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (YAML/JSON)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show program version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c.Network.DNSServers = nil
	for _, s := range strings.Split(opts.dnsServers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			c.Network.DNSServers = append(c.Network.DNSServers, s)
		}
	}

	return opts, nil
}

func newResolver(cfg config.Configuration) (resolver.Resolver, error) {
	var r resolver.Resolver = resolver.NewSystemResolver()
	if len(cfg.Network.DNSServers) > 0 {
		dnsResolver, err := resolver.NewDNSResolver(cfg.Network.DNSServers,
			time.Duration(cfg.General.Timeout)*time.Second, cfg.Network.IPv6)
		if err != nil {
			return nil, err
		}
		r = dnsResolver
	}

	if cfg.General.RateLimit > 0 {
		r = resolver.NewRateLimited(cfg.General.RateLimit, r)
	}
	return r, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("[-]"), err)
		return 1
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, VERSION)
		return 0
	}

	cfg := opts.cfg
	if cfg.Output.NoColor {
		color.NoColor = true
	}

	console := report.NewConsole(stdout, stderr, cfg.Output.Silent)
	if err := cfg.Validate(); err != nil {
		console.Fatalf("%v", err)
		return 1
	}

	level := cfg.General.Verbose
	if cfg.Output.Silent {
		level = logging.LevelError
	}
	logger, err := logging.New(stderr, level, cfg.General.LogDir)
	if err != nil {
		console.Fatalf("%v", err)
		return 1
	}
	defer logger.Close()

	logger.Debugf("subprobe v%s starting", VERSION)
	console.Banner(VERSION)

	words, err := wordlist.Load(cfg.Input.Wordlist)
	if err != nil {
		console.Fatalf("Failed to read wordlist: %v", err)
		return 1
	}

	var output *report.File
	if cfg.Output.File != "" {
		output, err = report.NewFile(cfg.Output.File)
		if err != nil {
			console.Fatalf("Could not create output file: %v", err)
			return 1
		}
		defer output.Close()
	}

	r, err := newResolver(cfg)
	if err != nil {
		console.Fatalf("Invalid resolver configuration: %v", err)
		return 1
	}

	var history *store.History
	if cfg.Features.Database != "" {
		history, err = store.Open(cfg.Features.Database)
		if err != nil {
			logger.Errorf("Error initializing database: %v", err)
		} else {
			defer history.Close()
		}
	}

	wordlistName := cfg.Input.Wordlist
	if wordlistName == "" {
		wordlistName = "built-in"
	}
	console.Header(cfg.Input.Domain, cfg.General.Threads, wordlistName)

	sig := wildcard.Detect(ctx, r, cfg.Input.Domain, wildcard.ProbeTimeout)
	if sig != nil {
		logger.Debugf("Wildcard probe %s answered %s", sig.Name, sig)
	}
	console.Wildcard(sig)
	console.Infof("Loaded %d words. Starting enumeration...", len(words))

	enumerator := enum.New(r, enum.Options{
		Concurrency:     cfg.General.Threads,
		Timeout:         time.Duration(cfg.General.Timeout) * time.Second,
		Retries:         cfg.General.Retries,
		IncludeWildcard: cfg.Network.IncludeWildcard,
	}, logger).OnFound(console.Found)

	if cfg.Output.Progress {
		console.StartProgress(len(words))
		enumerator.OnProgress(console.Tick)
	}

	if cfg.Features.APIPort > 0 {
		server := api.NewServer(fmt.Sprintf(":%d", cfg.Features.APIPort), cfg.Input.Domain, enumerator, logger)
		if err := server.Start(); err != nil {
			logger.Errorf("%v", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()
		}
	}

	started := time.Now()
	results := enumerator.Run(ctx, cfg.Input.Domain, words, sig)
	console.FinishProgress()

	scan := report.Scan{
		Domain:   cfg.Input.Domain,
		Wildcard: sig,
		Results:  results.Snapshot(),
		Stats:    enumerator.Stats().Snapshot(),
		Started:  started,
	}

	if history != nil {
		if known, err := history.Known(ctx, scan.Domain); err != nil {
			logger.Errorf("%v", err)
		} else {
			fresh := 0
			for _, name := range scan.Names() {
				if !known[name] {
					fresh++
				}
			}
			logger.Infof("%d of %d subdomains not seen in earlier scans", fresh, len(scan.Results))
		}
	}

	console.Report(ctx, scan)

	if output != nil {
		if err := output.Report(ctx, scan); err != nil {
			console.Fatalf("%v", err)
			return 1
		}
		console.Saved(len(scan.Results), output.Path())
	}

	notifiers := report.NewMulti()
	if history != nil {
		notifiers.Add(history)
	}
	if cfg.Notifications.Slack != "" {
		notifiers.Add(report.NewSlackReporter(cfg.Notifications.Slack))
	}
	if err := notifiers.Report(ctx, scan); err != nil {
		logger.Errorf("Reporting error: %v", err)
	}

	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
