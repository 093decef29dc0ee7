package dmarc

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// OrganizationalDomain returns the organizational domain for the given domain.
//
// The organizational domain is the domain directly under the public suffix.
// For example:
//   - example.com -> example.com
//   - sub.example.com -> example.com
//   - sub.example.co.uk -> example.co.uk
//
// DMARC records are commonly published only at the organizational domain,
// which covers all subdomains (RFC 7489 Section 6.6.3).
func OrganizationalDomain(domain string) string {
	// Normalize: remove trailing dot and convert to lowercase
	domain = strings.TrimSuffix(strings.ToLower(domain), ".")

	if domain == "" {
		return ""
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		// If we can't determine the eTLD+1, return the domain as-is.
		// This handles cases like "localhost" or invalid domains.
		return domain
	}

	return etld1
}

// DomainsAligned checks if two domains are aligned according to the given
// alignment mode.
//
// In strict mode, the domains must match exactly.
// In relaxed mode, the organizational domains must match.
func DomainsAligned(domain1, domain2 string, alignment Align) bool {
	d1 := strings.TrimSuffix(strings.ToLower(domain1), ".")
	d2 := strings.TrimSuffix(strings.ToLower(domain2), ".")

	if alignment == AlignStrict {
		return d1 == d2
	}

	return OrganizationalDomain(d1) == OrganizationalDomain(d2)
}

// IsSubdomain returns true if domain is a subdomain of the given parent.
// Both domain.example.com and example.com return true for parent example.com.
func IsSubdomain(domain, parent string) bool {
	d := strings.TrimSuffix(strings.ToLower(domain), ".")
	p := strings.TrimSuffix(strings.ToLower(parent), ".")

	if d == p {
		return true
	}

	return strings.HasSuffix(d, "."+p)
}
