// Package dkim probes for published DKIM key records (RFC 6376).
//
// DKIM selectors are not discoverable: without seeing signed mail there
// is no way to enumerate them. The probe therefore tries a list of
// conventional selector names and reports whatever it finds.
package dkim

import (
	"context"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

// DefaultSelectors are the conventional selector names tried when the
// caller does not supply its own list. "selector1" and "selector2" are
// the Microsoft 365 defaults; "default" is common elsewhere.
var DefaultSelectors = []string{"default", "selector1", "selector2"}

// SelectorResult holds the records found for one selector.
type SelectorResult struct {
	// Selector is the selector name that was probed.
	Selector string

	// Records are the raw TXT strings at <selector>._domainkey.<domain>.
	Records []string

	// Revoked reports whether every record for this selector carries an
	// empty p= tag, meaning the key has been revoked.
	Revoked bool
}

// TXTName returns the DNS name queried for a selector.
func TXTName(selector, domain string) string {
	return selector + "._domainkey." + domain
}

// Probe queries each selector in order and returns results for those
// that have records, preserving selector order. Selectors whose lookup
// fails for any reason are treated as absent: an audit probe cannot
// distinguish a missing selector from one it could not resolve.
func Probe(ctx context.Context, resolver dns.Resolver, domain string, selectors []string) []SelectorResult {
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}

	var found []SelectorResult
	for _, selector := range selectors {
		records, err := resolver.LookupTXT(ctx, TXTName(selector, domain))
		if err != nil || len(records) == 0 {
			continue
		}

		revoked := true
		for _, txt := range records {
			r, isDKIM := ParseRecord(txt)
			if !isDKIM || !r.Revoked {
				revoked = false
			}
		}

		found = append(found, SelectorResult{
			Selector: selector,
			Records:  records,
			Revoked:  revoked,
		})
	}
	return found
}
