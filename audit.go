package dnstoolbox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/flamingdeath80/dnstoolbox/bimi"
	"github.com/flamingdeath80/dnstoolbox/dkim"
	"github.com/flamingdeath80/dnstoolbox/dmarc"
	"github.com/flamingdeath80/dnstoolbox/dns"
	"github.com/flamingdeath80/dnstoolbox/fetch"
	"github.com/flamingdeath80/dnstoolbox/mtasts"
	"github.com/flamingdeath80/dnstoolbox/spf"
)

// Config contains configuration for an Auditor. All fields are optional.
type Config struct {
	// Resolver performs DNS lookups. Defaults to a miekg/dns resolver
	// using the system nameservers.
	Resolver dns.Resolver

	// Fetcher retrieves HTTPS-hosted policy artifacts. Defaults to an
	// HTTP client with a 5 second timeout.
	Fetcher fetch.Fetcher

	// Selectors are the DKIM selectors to probe.
	// Defaults to dkim.DefaultSelectors.
	Selectors []string

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Auditor runs the email-authentication checks for a domain.
// It is stateless per evaluation and safe for concurrent use.
type Auditor struct {
	resolver  dns.Resolver
	fetcher   fetch.Fetcher
	selectors []string
	logger    *slog.Logger
}

// New creates an Auditor, filling in defaults for unset Config fields.
func New(config Config) *Auditor {
	if config.Resolver == nil {
		config.Resolver = dns.NewResolver(dns.ResolverConfig{})
	}
	if config.Fetcher == nil {
		config.Fetcher = fetch.NewClient(fetch.Config{})
	}
	if len(config.Selectors) == 0 {
		config.Selectors = dkim.DefaultSelectors
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Auditor{
		resolver:  config.Resolver,
		fetcher:   config.Fetcher,
		selectors: config.Selectors,
		logger:    config.Logger,
	}
}

// checkFunc classifies one mechanism for a domain.
type checkFunc func(ctx context.Context, domain string) (Status, []string)

// Evaluate runs all checks against the domain and returns a report with
// one outcome per check, always in the order MX, SPF, DKIM, DMARC,
// MTA-STS, BIMI. The checks are independent and run concurrently; a
// failing check degrades to StatusMissing and never affects the others.
func (a *Auditor) Evaluate(ctx context.Context, domain string) Report {
	checks := []struct {
		label string
		fn    checkFunc
	}{
		{"MX Records", a.checkMX},
		{"SPF Record", a.checkSPF},
		{fmt.Sprintf("DKIM Record (selectors=%s)", strings.Join(a.selectors, ", ")), a.checkDKIM},
		{"DMARC Record", a.checkDMARC},
		{"MTA-STS Record", a.checkMTASTS},
		{"BIMI Record", a.checkBIMI},
	}

	report := Report{
		ID:       ulid.Make(),
		Domain:   domain,
		Time:     time.Now().UTC(),
		Outcomes: make([]CheckOutcome, len(checks)),
	}

	var wg sync.WaitGroup
	for i, check := range checks {
		i, check := i, check
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Outcomes[i] = a.run(ctx, domain, check.label, check.fn)
		}()
	}
	wg.Wait()

	return report
}

// run executes one check, converting a panic into a MISSING outcome so
// no single check can take down the batch.
func (a *Auditor) run(ctx context.Context, domain, label string, fn checkFunc) (outcome CheckOutcome) {
	defer func() {
		if x := recover(); x != nil {
			a.logger.Error("check panicked", "check", label, "domain", domain, "panic", fmt.Sprint(x))
			outcome = CheckOutcome{
				Label:   label,
				Details: []string{fmt.Sprintf("Check failed: %v", x)},
				Status:  StatusMissing,
			}
		}
	}()

	status, details := fn(ctx, domain)
	a.logger.Debug("check complete", "check", label, "domain", domain, "status", string(status))

	return CheckOutcome{Label: label, Details: details, Status: status}
}

// checkMX reports whether the domain has any MX records.
func (a *Auditor) checkMX(ctx context.Context, domain string) (Status, []string) {
	records, err := a.resolver.LookupMX(ctx, domain)
	if err != nil || len(records) == 0 {
		return StatusMissing, []string{"No MX records found"}
	}

	details := make([]string, 0, len(records))
	for _, mx := range records {
		details = append(details, fmt.Sprintf("%d %s", mx.Pref, mx.Host))
	}
	return StatusOK, details
}

// checkSPF analyzes the domain's SPF record against the RFC 7208 limit
// of ten DNS-querying terms.
func (a *Auditor) checkSPF(ctx context.Context, domain string) (Status, []string) {
	record, raw, err := spf.Lookup(ctx, a.resolver, domain)
	if err != nil {
		return StatusMissing, []string{"No SPF record found"}
	}

	count := record.LookupCount()
	details := []string{raw, fmt.Sprintf("DNS Lookups: %d", count)}
	if !record.HasTerminal() {
		details = append(details, "Record has no terminating 'all' mechanism or redirect")
	}

	if count > spf.LookupLimit {
		return StatusWarn, details
	}
	return StatusOK, details
}

// checkDKIM probes the configured selectors for published keys.
func (a *Auditor) checkDKIM(ctx context.Context, domain string) (Status, []string) {
	found := dkim.Probe(ctx, a.resolver, domain, a.selectors)
	if len(found) == 0 {
		return StatusMissing, []string{"No DKIM record found for selectors: " + strings.Join(a.selectors, ", ")}
	}

	var details []string
	for _, sel := range found {
		for _, rec := range sel.Records {
			line := sel.Selector + ": " + rec
			if sel.Revoked {
				line += " (revoked)"
			}
			details = append(details, line)
		}
	}
	return StatusOK, details
}

// checkDMARC classifies the domain's DMARC policy strength and alignment.
func (a *Auditor) checkDMARC(ctx context.Context, domain string) (Status, []string) {
	record, txts, foundDomain, err := dmarc.Lookup(ctx, a.resolver, domain)
	if err != nil {
		return StatusMissing, []string{"No DMARC record found"}
	}

	details := append([]string{}, txts...)
	if foundDomain != domain {
		details = append(details, "Record found at organizational domain "+foundDomain)
	}

	policy := "MISSING"
	if record.Policy != dmarc.PolicyEmpty {
		policy = strings.ToUpper(string(record.Policy))
	}
	details = append(details, fmt.Sprintf("Policy=%s, ASPF=%s, ADKIM=%s",
		policy,
		strings.ToUpper(string(record.ASPF)),
		strings.ToUpper(string(record.ADKIM))))

	switch {
	case record.Policy == dmarc.PolicyEmpty || record.Policy == dmarc.PolicyNone:
		// An unenforced policy protects nothing.
		return StatusMissing, details
	case record.Policy.Enforcing() && record.StrictAlignment():
		return StatusOK, details
	default:
		// Enforcing with relaxed alignment, or an unrecognized policy.
		return StatusWarn, details
	}
}

// chainProbe parameterizes the shared two-stage verification used by
// MTA-STS and BIMI: a DNS record announces the mechanism, and an
// HTTPS-hosted artifact proves it is live.
type chainProbe struct {
	// protocol names the mechanism in the "no record" detail.
	protocol string

	// noun and nounLower name the artifact in fetch-outcome details.
	noun      string
	nounLower string

	// lookup performs stage 1 and returns the raw TXT records.
	lookup func(ctx context.Context, domain string) ([]string, error)

	// artifactURL derives the stage 2 URL. ok=false means the records
	// reference no artifact, which is terminal: nothing is fetched.
	artifactURL func(domain string, records []string) (url string, ok bool)
}

// checkChained runs a two-stage probe. Stage 1 failure (or absence)
// short-circuits: the HTTPS fetch is only attempted once a DNS record
// exists and yields an artifact URL.
func (a *Auditor) checkChained(ctx context.Context, domain string, probe chainProbe) (Status, []string) {
	records, err := probe.lookup(ctx, domain)
	if err != nil || len(records) == 0 {
		return StatusMissing, []string{fmt.Sprintf("No %s record found", probe.protocol)}
	}

	details := append([]string{}, records...)

	url, ok := probe.artifactURL(domain, records)
	if !ok {
		return StatusMissing, details
	}

	res, err := a.fetcher.Get(ctx, url)
	switch {
	case err != nil:
		details = append(details, "Error fetching "+probe.nounLower)
		return StatusMissing, details
	case res.StatusCode == http.StatusOK:
		details = append(details, fmt.Sprintf("%s found at %s", probe.noun, url))
		return StatusOK, details
	default:
		details = append(details, fmt.Sprintf("%s missing or inaccessible (%d)", probe.noun, res.StatusCode))
		return StatusMissing, details
	}
}

// checkMTASTS verifies the MTA-STS record and its policy file. The
// policy location is fixed by RFC 8461, so stage 2 always has a URL.
func (a *Auditor) checkMTASTS(ctx context.Context, domain string) (Status, []string) {
	return a.checkChained(ctx, domain, chainProbe{
		protocol:  "MTA-STS",
		noun:      "Policy file",
		nounLower: "policy file",
		lookup: func(ctx context.Context, domain string) ([]string, error) {
			_, txts, err := mtasts.Lookup(ctx, a.resolver, domain)
			return txts, err
		},
		artifactURL: func(domain string, _ []string) (string, bool) {
			return mtasts.PolicyURL(domain), true
		},
	})
}

// checkBIMI verifies the BIMI record and its logo. Unlike MTA-STS the
// artifact location comes from the record itself; a record without an
// l= tag is terminal.
func (a *Auditor) checkBIMI(ctx context.Context, domain string) (Status, []string) {
	return a.checkChained(ctx, domain, chainProbe{
		protocol:  "BIMI",
		noun:      "Logo",
		nounLower: "logo",
		lookup: func(ctx context.Context, domain string) ([]string, error) {
			return bimi.Lookup(ctx, a.resolver, domain)
		},
		artifactURL: func(_ string, records []string) (string, bool) {
			logo := bimi.LogoURL(records)
			return logo, logo != ""
		},
	})
}
