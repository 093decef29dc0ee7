package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/flamingdeath80/dnstoolbox"
	"github.com/flamingdeath80/dnstoolbox/dns"
	"github.com/flamingdeath80/dnstoolbox/fetch"
)

var (
	jsonOutput  bool
	selectors   []string
	nameservers []string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "dnstoolbox [domain]",
	Short: "Audit a domain's email authentication posture",
	Long: `dnstoolbox audits the DNS-published policy records that govern email
for a domain (MX, SPF, DKIM, DMARC, MTA-STS, BIMI) and verifies that
the HTTPS-hosted artifacts referenced by MTA-STS and BIMI are actually
reachable. Without a domain argument it prompts for one.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	rootCmd.Flags().StringSliceVar(&selectors, "selectors", nil, "DKIM selectors to probe (default: default, selector1, selector2)")
	rootCmd.Flags().StringSliceVar(&nameservers, "nameserver", nil, "DNS server to query, host[:port] (default: system resolvers)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout per network call")
}

func run(cmd *cobra.Command, args []string) error {
	domain, err := domainArg(args)
	if err != nil {
		return err
	}

	servers := make([]string, 0, len(nameservers))
	for _, ns := range nameservers {
		if !strings.Contains(ns, ":") {
			ns += ":53"
		}
		servers = append(servers, ns)
	}

	auditor := dnstoolbox.New(dnstoolbox.Config{
		Resolver: dns.NewResolver(dns.ResolverConfig{
			Nameservers: servers,
			Timeout:     timeout,
		}),
		Fetcher:   fetch.NewClient(fetch.Config{Timeout: timeout}),
		Selectors: selectors,
		Logger:    newLogger(),
	})

	report := auditor.Evaluate(cmd.Context(), domain)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println("\n--- DNS & Policy Check Results ---")
	for _, oc := range report.Outcomes {
		colorstring.Println(fmt.Sprintf("[bold]%s:[reset]", oc.Label))
		color := statusColor(oc.Status)
		for _, d := range oc.Details {
			colorstring.Println(fmt.Sprintf("  %s%s[reset]", color, d))
		}
	}
	return nil
}

// domainArg returns the domain from the command line, prompting for one
// when no argument was given.
func domainArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	fmt.Print("Enter domain to check: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading domain: %w", err)
	}
	domain := strings.TrimSpace(line)
	if domain == "" {
		return "", errors.New("no domain given")
	}
	return domain, nil
}

// statusColor maps a check status to its display color. Presentation
// only; the evaluation core never emits color codes.
func statusColor(s dnstoolbox.Status) string {
	switch s {
	case dnstoolbox.StatusOK:
		return "[green]"
	case dnstoolbox.StatusWarn:
		return "[yellow]"
	default:
		return "[red]"
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("DNSTOOLBOX_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
