// Package mtasts handles the DNS half of MTA-STS (RFC 8461).
//
// An MTA-STS deployment has two parts: a TXT record at
// _mta-sts.<domain> announcing that a policy exists, and the policy
// itself served over HTTPS from a fixed well-known URL. The record
// alone proves nothing; enforcement is only live if the policy file is
// reachable.
package mtasts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

// MTA-STS lookup errors.
var (
	// ErrNoRecord indicates no MTA-STS DNS record was found.
	ErrNoRecord = errors.New("mtasts: no MTA-STS DNS record found")

	// ErrDNS indicates a DNS lookup error occurred.
	ErrDNS = errors.New("mtasts: DNS lookup error")
)

// Record is a parsed MTA-STS TXT record, e.g. "v=STSv1; id=20240101T000000".
type Record struct {
	// Version is the value of the v= tag, normally "STSv1".
	Version string

	// ID is the policy instance identifier. Senders refetch the policy
	// when it changes.
	ID string
}

// TXTName returns the DNS name announcing an MTA-STS policy for domain.
func TXTName(domain string) string {
	return "_mta-sts." + domain
}

// PolicyURL returns the well-known HTTPS URL of the domain's policy file
// (RFC 8461 Section 3.3). The location is fixed; it does not depend on
// the record's contents.
func PolicyURL(domain string) string {
	return "https://mta-sts." + domain + "/.well-known/mta-sts.txt"
}

// ParseRecord parses an MTA-STS TXT record string. Returns the record
// and whether the string is an MTA-STS record at all (begins with a
// v=STSv1 tag).
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
			if key != "v" || !strings.EqualFold(value, "STSv1") {
				return nil, false
			}
			r.Version = value
			continue
		}
		if key == "id" {
			r.ID = value
		}
	}
	if r.Version == "" {
		return nil, false
	}
	return r, true
}

// Lookup queries the MTA-STS TXT record for the given domain. Returns
// all raw TXT strings from the answer and the first one that parses as
// an MTA-STS record, or nil if none does. The presence of any TXT data
// at the probe name is what announces a policy; a malformed record is
// still an announcement.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) (*Record, []string, error) {
	records, err := resolver.LookupTXT(ctx, TXTName(domain))
	if err != nil {
		if dns.IsNotFound(err) {
			return nil, nil, ErrNoRecord
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrDNS, err)
	}

	for _, txt := range records {
		if r, isSTS := ParseRecord(txt); isSTS {
			return r, records, nil
		}
	}
	return nil, records, nil
}
