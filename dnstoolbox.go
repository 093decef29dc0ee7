// Package dnstoolbox audits a domain's email-authentication posture.
//
// It resolves and interprets the DNS-published policy records that
// govern mail for a domain (MX, SPF, DKIM, DMARC, MTA-STS, BIMI) and,
// for MTA-STS and BIMI, verifies that the HTTPS-hosted artifact the
// record references is actually reachable. The result is advisory: a
// best-effort classification of each mechanism, not a compliance
// verdict.
//
// Basic usage:
//
//	auditor := dnstoolbox.New(dnstoolbox.Config{})
//	report := auditor.Evaluate(ctx, "example.com")
//	for _, oc := range report.Outcomes {
//	    fmt.Println(oc.Label, oc.Status)
//	}
//
// Every check degrades to StatusMissing on failure; Evaluate always
// returns six outcomes in a fixed order.
package dnstoolbox

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Status classifies the outcome of a single check.
type Status string

const (
	// StatusOK means the mechanism is present and soundly configured.
	StatusOK Status = "ok"

	// StatusWarn means the mechanism is present but its configuration
	// weakens it (e.g. too many SPF lookups, relaxed DMARC alignment).
	StatusWarn Status = "warn"

	// StatusMissing means the mechanism is absent, unreachable, or
	// effectively disabled (e.g. DMARC p=none).
	StatusMissing Status = "missing"
)

// CheckOutcome is the result of one check. Immutable once produced.
type CheckOutcome struct {
	// Label names the check for display.
	Label string `json:"label"`

	// Details are human-readable lines: raw records followed by any
	// derived summary, in a stable order.
	Details []string `json:"details"`

	// Status is the check's classification.
	Status Status `json:"status"`
}

// Report is the result of evaluating one domain.
type Report struct {
	// ID uniquely identifies this evaluation run.
	ID ulid.ULID `json:"id"`

	// Domain is the audited domain.
	Domain string `json:"domain"`

	// Time is when the evaluation started, in UTC.
	Time time.Time `json:"time"`

	// Outcomes holds one result per check, always in the order
	// MX, SPF, DKIM, DMARC, MTA-STS, BIMI.
	Outcomes []CheckOutcome `json:"outcomes"`
}
