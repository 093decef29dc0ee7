// Package spf analyzes Sender Policy Framework (SPF) DNS records
// (RFC 7208).
//
// Unlike a full SPF evaluator, this package does not resolve include
// chains or expand macros. It parses a published record into its terms
// and reports how many of them require DNS lookups at evaluation time,
// so a domain owner can be warned before the RFC 7208 limit of 10 is
// exceeded.
package spf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

// SPF lookup errors.
var (
	// ErrNoRecord indicates no SPF record was found in the domain's TXT records.
	ErrNoRecord = errors.New("spf: no SPF record found")

	// ErrDNS indicates a DNS lookup error occurred.
	ErrDNS = errors.New("spf: DNS lookup error")
)

// LookupLimit is the maximum number of DNS-querying mechanisms and
// modifiers an SPF evaluation may use, per RFC 7208 Section 4.6.4.
// Records exceeding it risk a permerror at the receiver.
const LookupLimit = 10

// Record is a parsed SPF DNS record.
//
// An example record for example.com:
//
//	v=spf1 +mx a:colo.example.com/28 -all
type Record struct {
	// Version is always "spf1".
	Version string

	// Directives are the record's mechanisms, in published order.
	Directives []Directive

	// Redirect is the domain from a "redirect=" modifier, if any.
	Redirect string

	// Explanation is the domain from an "exp=" modifier, if any.
	Explanation string

	// Other contains modifiers other than redirect and exp.
	Other []Modifier

	// Unknown contains terms that are not valid SPF mechanisms or
	// modifiers. They are preserved for display but never counted.
	Unknown []string
}

// Directive is a mechanism with an optional qualifier and parameter.
type Directive struct {
	// Qualifier sets the result if this directive matches.
	// "" and "+" mean "pass", "-" means "fail", "?" means "neutral",
	// "~" means "softfail".
	Qualifier string

	// Mechanism is one of: "all", "include", "a", "mx", "ptr", "ip4",
	// "ip6", "exists". Always lower case.
	Mechanism string

	// Value is the raw remainder of the term after the mechanism name,
	// including the leading ":" or "/" separator. Empty for bare
	// mechanisms like "mx" or "-all".
	Value string
}

// String returns the directive in record form.
func (d Directive) String() string {
	return d.Qualifier + d.Mechanism + d.Value
}

// Modifier is a name=value modifier.
type Modifier struct {
	Key   string // Always lower case.
	Value string
}

// String returns the SPF record as a DNS TXT record string.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString("v=")
	b.WriteString(r.Version)

	for _, d := range r.Directives {
		b.WriteByte(' ')
		b.WriteString(d.String())
	}

	if r.Redirect != "" {
		b.WriteString(" redirect=")
		b.WriteString(r.Redirect)
	}

	if r.Explanation != "" {
		b.WriteString(" exp=")
		b.WriteString(r.Explanation)
	}

	for _, m := range r.Other {
		b.WriteByte(' ')
		b.WriteString(m.Key)
		b.WriteByte('=')
		b.WriteString(m.Value)
	}

	for _, u := range r.Unknown {
		b.WriteByte(' ')
		b.WriteString(u)
	}

	return b.String()
}

// LookupCount returns the number of terms that cause DNS lookups during
// SPF evaluation: the include, a, mx, ptr and exists mechanisms, and the
// redirect modifier. Mechanisms are matched as whole terms, so domain
// names containing e.g. "mx" as a substring never count.
func (r *Record) LookupCount() int {
	n := 0
	for _, d := range r.Directives {
		switch d.Mechanism {
		case "include", "a", "mx", "ptr", "exists":
			n++
		}
	}
	if r.Redirect != "" {
		n++
	}
	return n
}

// HasTerminal reports whether the record ends in an "all" directive or
// carries a redirect modifier. Records without either fall through to a
// default neutral result, which is usually an oversight.
func (r *Record) HasTerminal() bool {
	if r.Redirect != "" {
		return true
	}
	if len(r.Directives) == 0 {
		return false
	}
	return r.Directives[len(r.Directives)-1].Mechanism == "all"
}

// Lookup fetches the domain's TXT records and returns the first one that
// is an SPF record, parsed, along with its raw text. The first match
// wins; any further SPF records are ignored.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) (*Record, string, error) {
	records, err := resolver.LookupTXT(ctx, domain)
	if err != nil {
		if dns.IsNotFound(err) {
			return nil, "", ErrNoRecord
		}
		return nil, "", fmt.Errorf("%w: %v", ErrDNS, err)
	}

	for _, txt := range records {
		if r, isSPF := ParseRecord(txt); isSPF {
			return r, txt, nil
		}
	}
	return nil, "", ErrNoRecord
}
