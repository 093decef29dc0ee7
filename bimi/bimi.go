// Package bimi handles the DNS half of BIMI (Brand Indicators for
// Message Identification).
//
// A BIMI deployment publishes a TXT record at <selector>._bimi.<domain>
// pointing at an HTTPS-hosted brand logo. The record is advisory until
// the logo it references is actually fetchable.
package bimi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

// BIMI lookup errors.
var (
	// ErrNoRecord indicates no BIMI DNS record was found.
	ErrNoRecord = errors.New("bimi: no BIMI DNS record found")

	// ErrDNS indicates a DNS lookup error occurred.
	ErrDNS = errors.New("bimi: DNS lookup error")
)

// DefaultSelector is the BIMI selector used when mail carries no
// BIMI-Selector header, which is the common case.
const DefaultSelector = "default"

// Record is a parsed BIMI TXT record, e.g.
// "v=BIMI1; l=https://example.com/logo.svg".
type Record struct {
	// Version is the value of the v= tag, normally "BIMI1".
	Version string

	// LogoURL is the l= tag value: the HTTPS location of the brand logo.
	// When a record repeats the tag, the last occurrence wins.
	LogoURL string

	// EvidenceURL is the a= tag value: the location of a Verified Mark
	// Certificate, if published.
	EvidenceURL string
}

// TXTName returns the DNS name of the BIMI record for a selector.
func TXTName(selector, domain string) string {
	return selector + "._bimi." + domain
}

// ParseRecord parses a BIMI TXT record string. Returns the record and
// whether the string is a BIMI record at all (begins with a v=BIMI1 tag).
func ParseRecord(s string) (*Record, bool) {
	r := &Record{}
	for i, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if i == 0 {
			if key != "v" || !strings.EqualFold(value, "BIMI1") {
				return nil, false
			}
			r.Version = value
			continue
		}
		switch key {
		case "l":
			r.LogoURL = value
		case "a":
			r.EvidenceURL = value
		}
	}
	if r.Version == "" {
		return nil, false
	}
	return r, true
}

// LogoURL scans raw TXT records for l= tags and returns the last value
// found across all records and parts, or "" if none. When the tag
// repeats, the last occurrence wins.
func LogoURL(records []string) string {
	logo := ""
	for _, rec := range records {
		for _, part := range strings.Split(rec, ";") {
			part = strings.TrimSpace(part)
			if v, ok := strings.CutPrefix(part, "l="); ok {
				logo = v
			}
		}
	}
	return logo
}

// Lookup queries the BIMI TXT record for the given domain at the default
// selector. Returns all raw TXT strings from the answer.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) ([]string, error) {
	records, err := resolver.LookupTXT(ctx, TXTName(DefaultSelector, domain))
	if err != nil {
		if dns.IsNotFound(err) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("%w: %v", ErrDNS, err)
	}
	return records, nil
}
