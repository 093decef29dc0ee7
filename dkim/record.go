package dkim

import (
	"strings"
)

// Record represents a DKIM DNS TXT record (RFC 6376 Section 3.6.1),
// reduced to the tags relevant for auditing. The record is retrieved
// from <selector>._domainkey.<domain>.
type Record struct {
	// Version is the record version from the v= tag, normally "DKIM1".
	Version string

	// Key is the key type from the k= tag: "rsa" (default) or "ed25519".
	Key string

	// Hashes is the list of acceptable hash algorithms from the h= tag.
	// Empty means all algorithms are acceptable.
	Hashes []string

	// Notes contains the optional n= tag.
	Notes string

	// PublicKey is the base64 public key data from the p= tag.
	PublicKey string

	// Flags contains t= tag flags ("y" testing, "s" strict i= alignment).
	Flags []string

	// Revoked reports whether the record carries an empty p= tag, which
	// revokes the key (RFC 6376 Section 3.6.1).
	Revoked bool
}

// IsTesting returns true if the key is marked for testing (t=y).
func (r *Record) IsTesting() bool {
	for _, f := range r.Flags {
		if strings.EqualFold(f, "y") {
			return true
		}
	}
	return false
}

// ParseRecord parses a DKIM key TXT record string.
//
// Parsing is lenient. A string qualifies as a DKIM record if it carries
// a p= tag or a v=DKIM1 tag; anything else at the _domainkey location
// (site verifications and the like) is reported as not DKIM.
func ParseRecord(s string) (record *Record, isDKIM bool) {
	r := &Record{Key: "rsa"}

	hasP := false
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "v":
			r.Version = value
		case "k":
			r.Key = strings.ToLower(value)
		case "h":
			r.Hashes = splitColon(value)
		case "n":
			r.Notes = value
		case "t":
			r.Flags = splitColon(value)
		case "p":
			hasP = true
			r.PublicKey = value
			r.Revoked = value == ""
		}
	}

	if !hasP && !strings.EqualFold(r.Version, "DKIM1") {
		return nil, false
	}
	return r, true
}

func splitColon(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ":") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, strings.ToLower(v))
		}
	}
	return out
}
