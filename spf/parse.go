package spf

import (
	"strings"
)

// version is the required record prefix. Matching is case-sensitive:
// records published with other casings are not treated as SPF here.
const version = "v=spf1"

// mechanismNames are the mechanisms defined by RFC 7208 Section 5.
var mechanismNames = map[string]bool{
	"all":     true,
	"include": true,
	"a":       true,
	"mx":      true,
	"ptr":     true,
	"ip4":     true,
	"ip6":     true,
	"exists":  true,
}

// ParseRecord parses an SPF TXT record string.
//
// Parsing is lenient: this is an advisory analyzer, not an evaluator, so
// malformed terms are preserved in Record.Unknown instead of failing the
// whole record. The second return value reports whether the string is an
// SPF record at all (begins with "v=spf1").
func ParseRecord(s string) (r *Record, isSPF bool) {
	if s != version && !strings.HasPrefix(s, version+" ") {
		return nil, false
	}

	r = &Record{Version: "spf1"}

	for _, term := range strings.Fields(s[len(version):]) {
		parseTerm(r, term)
	}
	return r, true
}

// parseTerm parses a single term into the record.
func parseTerm(r *Record, term string) {
	t := term

	qualifier := ""
	if len(t) > 0 && (t[0] == '+' || t[0] == '-' || t[0] == '?' || t[0] == '~') {
		qualifier = t[:1]
		t = t[1:]
	}

	// A term whose name is followed by "=" is a modifier; ":" or "/"
	// introduce a mechanism parameter.
	sep := strings.IndexAny(t, "=:/")

	if sep >= 0 && t[sep] == '=' {
		if qualifier != "" {
			// Modifiers cannot carry qualifiers.
			r.Unknown = append(r.Unknown, term)
			return
		}
		key := strings.ToLower(t[:sep])
		value := t[sep+1:]
		switch key {
		case "redirect":
			r.Redirect = value
		case "exp":
			r.Explanation = value
		default:
			r.Other = append(r.Other, Modifier{Key: key, Value: value})
		}
		return
	}

	name := t
	value := ""
	if sep >= 0 {
		name = t[:sep]
		value = t[sep:]
	}
	name = strings.ToLower(name)

	if !mechanismNames[name] {
		r.Unknown = append(r.Unknown, term)
		return
	}

	r.Directives = append(r.Directives, Directive{
		Qualifier: qualifier,
		Mechanism: name,
		Value:     value,
	})
}
