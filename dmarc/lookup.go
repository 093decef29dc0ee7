package dmarc

import (
	"context"
	"errors"
	"fmt"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

// Lookup looks up the DMARC record for the given domain.
//
// It first queries "_dmarc.<domain>". If no record is found there, it
// falls back to the organizational domain (determined using the Public
// Suffix List) and queries "_dmarc.<orgdomain>".
//
// Returns the parsed record, all raw TXT strings from the answer that
// held it, and the domain where the record was found. A domain may
// publish unrelated TXT records alongside its DMARC record; the first
// string that parses as DMARC wins.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) (record *Record, txts []string, foundDomain string, err error) {
	record, txts, err = lookupRecord(ctx, resolver, domain)
	if err == nil {
		return record, txts, domain, nil
	}
	if !errors.Is(err, ErrNoRecord) {
		return nil, nil, "", err
	}

	orgDomain := OrganizationalDomain(domain)
	if orgDomain == domain {
		// Already at the organizational domain, no fallback.
		return nil, nil, "", ErrNoRecord
	}

	record, txts, err = lookupRecord(ctx, resolver, orgDomain)
	if err != nil {
		return nil, nil, "", err
	}
	return record, txts, orgDomain, nil
}

// lookupRecord performs the DNS lookup for one domain level.
func lookupRecord(ctx context.Context, resolver dns.Resolver, domain string) (*Record, []string, error) {
	name := "_dmarc." + domain

	records, err := resolver.LookupTXT(ctx, name)
	if err != nil {
		if dns.IsNotFound(err) {
			return nil, nil, ErrNoRecord
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrDNS, err)
	}

	for _, txt := range records {
		if r, isDMARC := ParseRecord(txt); isDMARC {
			return r, records, nil
		}
	}
	return nil, nil, ErrNoRecord
}
