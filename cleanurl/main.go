// Command cleanurl removes tracking parameters from the URLs given as
// arguments, or from each line of stdin when there are none.
//
//	cleanurl -rules data.min.json 'https://example.com/?utm_source=x'
//	cleanurl -rules data.min.json -vet
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/getlantern/golog"

	"github.com/getlantern/clearurls"
)

var log = golog.LoggerFor("cleanurl")

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	rulesPath := flag.String("rules", "", "rule file (JSON or YAML)")
	referral := flag.Bool("referral", false, "also strip referral marketing parameters")
	vet := flag.Bool("vet", false, "only check the rule file")
	watch := flag.Bool("watch", false, "reload the rule file when it changes")
	flag.Parse()

	cfg := &Config{}
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatalf("Unable to load config %v: %v", *configPath, err)
		}
	}
	if *rulesPath != "" {
		cfg.Rules = *rulesPath
	}
	cfg.StripReferralMarketing = cfg.StripReferralMarketing || *referral
	if cfg.Rules == "" {
		fmt.Fprintln(os.Stderr, "cleanurl: -rules is required")
		os.Exit(2)
	}

	if *vet {
		os.Exit(vetRules(cfg.Rules, os.Stderr))
	}

	cleaner, reloader, err := loadRules(cfg)
	if err != nil {
		log.Fatalf("Unable to load rules: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *watch {
		go reloader.Start(ctx)
	}

	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			fmt.Println(cleanOne(cleaner, arg))
		}
		return
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fmt.Println(cleanOne(cleaner, scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Unable to read stdin: %v", err)
	}
}

// loadRules does the initial load through the Reloader, so a later Start
// doesn't parse the same file again.
func loadRules(cfg *Config) (*clearurls.Cleaner, *clearurls.Reloader, error) {
	cleaner := clearurls.NewCleaner(nil, cfg.StripReferralMarketing)
	reloader := clearurls.NewReloader(cfg.Rules, cleaner, cfg.reloadInterval())
	if _, err := reloader.SyncOnce(); err != nil {
		return nil, nil, err
	}
	return cleaner, reloader, nil
}

// cleanOne returns the cleaned URL, or the input itself if cleaning fails.
func cleanOne(c *clearurls.Cleaner, raw string) string {
	cleaned, err := c.CleanString(raw)
	if err != nil {
		log.Errorf("Unable to clean %v: %v", raw, err)
		return raw
	}
	return cleaned
}

func vetRules(path string, out io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "cleanurl: %v\n", err)
		return 1
	}
	good, errs := clearurls.Preprocessor.Vet(data)
	for _, err := range errs {
		fmt.Fprintln(out, err)
	}
	fmt.Fprintf(out, "%d providers ok, %d errors\n", len(good), len(errs))
	if len(errs) > 0 {
		return 1
	}
	return 0
}
