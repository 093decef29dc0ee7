package dmarc

import (
	"strconv"
	"strings"
)

// ParseRecord parses a DMARC TXT record string.
//
// The record is tokenized into tags before any value is read, so a tag
// name occurring inside another tag's value can never match. Returns the
// parsed record and whether the string is a DMARC record at all (its
// first tag is v=DMARC1, compared case-insensitively).
//
// Tags with values a strict RFC 7489 validator would reject are kept:
// the point of an audit is to show what is published.
func ParseRecord(s string) (*Record, bool) {
	tags := tokenize(s)
	if len(tags) == 0 || tags[0].Key != "v" || !strings.EqualFold(tags[0].Value, "DMARC1") {
		return nil, false
	}

	r := &Record{
		Version:    tags[0].Value,
		ASPF:       AlignRelaxed,
		ADKIM:      AlignRelaxed,
		Percentage: 100,
		Tags:       tags,
	}

	for _, tag := range tags[1:] {
		value := strings.ToLower(tag.Value)
		switch tag.Key {
		case "p":
			r.Policy = Policy(value)
		case "sp":
			r.SubdomainPolicy = Policy(value)
		case "aspf":
			r.ASPF = Align(value)
		case "adkim":
			r.ADKIM = Align(value)
		case "pct":
			if n, err := strconv.Atoi(value); err == nil {
				r.Percentage = n
			}
		}
	}

	return r, true
}

// tokenize splits a record into key=value tags on ";" and "=", trimming
// whitespace. Parts without "=" become tags with an empty value. Keys
// are lower-cased; values keep their case.
func tokenize(s string) []Tag {
	var tags []Tag
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			tags = append(tags, Tag{Key: strings.ToLower(key)})
			continue
		}
		tags = append(tags, Tag{
			Key:   strings.ToLower(strings.TrimSpace(key)),
			Value: strings.TrimSpace(value),
		})
	}
	return tags
}
