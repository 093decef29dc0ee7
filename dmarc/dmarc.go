// Package dmarc analyzes DMARC policy records (RFC 7489).
//
// The parser is deliberately lenient: an auditor wants to report what a
// domain has published, including values a strict validator would
// reject. Unknown and malformed tags are preserved rather than failing
// the record.
package dmarc

import (
	"errors"
	"strings"
)

// DMARC lookup errors.
var (
	// ErrNoRecord indicates no DMARC DNS record was found.
	ErrNoRecord = errors.New("dmarc: no DMARC DNS record found")

	// ErrDNS indicates a DNS lookup error occurred.
	ErrDNS = errors.New("dmarc: DNS lookup error")
)

// Policy determines how receivers should handle messages that fail DMARC.
// Values other than the three defined constants are preserved verbatim
// (lower-cased) so callers can flag them.
type Policy string

const (
	// PolicyEmpty means no p= tag was published. Its absence is itself
	// meaningful: the record requests nothing.
	PolicyEmpty Policy = ""

	// PolicyNone requests no specific action be taken for failing messages.
	PolicyNone Policy = "none"

	// PolicyQuarantine requests that failing messages be treated as suspicious.
	PolicyQuarantine Policy = "quarantine"

	// PolicyReject requests that failing messages be rejected.
	PolicyReject Policy = "reject"
)

// Enforcing reports whether the policy asks receivers to act on failures.
func (p Policy) Enforcing() bool {
	return p == PolicyQuarantine || p == PolicyReject
}

// Align specifies the alignment mode for identifier comparison.
type Align string

const (
	// AlignRelaxed requires the organizational domains to match.
	// This is the default mode.
	AlignRelaxed Align = "r"

	// AlignStrict requires exact domain matches.
	AlignStrict Align = "s"
)

// Tag is a single key=value pair from a DMARC record, key lower-cased.
type Tag struct {
	Key   string
	Value string
}

// Record is a parsed DMARC DNS TXT record.
//
// Example record:
//
//	v=DMARC1; p=reject; aspf=s; adkim=s
type Record struct {
	// Version is the value of the v= tag, normally "DMARC1".
	Version string

	// Policy is the requested policy (p= tag). PolicyEmpty if absent.
	Policy Policy

	// SubdomainPolicy is the policy for subdomains (sp= tag).
	// If empty, Policy applies.
	SubdomainPolicy Policy

	// ASPF is the SPF alignment mode (aspf= tag). Default is relaxed.
	ASPF Align

	// ADKIM is the DKIM alignment mode (adkim= tag). Default is relaxed.
	ADKIM Align

	// Percentage is the pct= tag value, 100 if absent.
	Percentage int

	// Tags holds every tag of the record in published order, including
	// unknown ones, with keys lower-cased.
	Tags []Tag
}

// Get returns the value of the first tag with the given key, and whether
// it was present. The key is matched case-insensitively.
func (r *Record) Get(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, t := range r.Tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// StrictAlignment reports whether both SPF and DKIM alignment modes are
// strict.
func (r *Record) StrictAlignment() bool {
	return r.ASPF == AlignStrict && r.ADKIM == AlignStrict
}

// String returns the record formatted for DNS TXT, from its tags.
func (r Record) String() string {
	var b strings.Builder
	for i, t := range r.Tags {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(t.Key)
		if t.Value != "" || t.Key != "v" {
			b.WriteByte('=')
			b.WriteString(t.Value)
		}
	}
	return b.String()
}
