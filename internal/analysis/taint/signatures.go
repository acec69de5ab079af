package taint

import "regexp"

// userInputSignature matches member-access chains that lexically resemble
// request or navigation input. Matching rendered text is deliberate: it
// catches aliased receivers (request.query) that path flattening misses.
var userInputSignature = regexp.MustCompile(
	`(?i)\b(req|request)\s*\.\s*(query|body|params|headers|cookies)\b` +
		`|\b(window|document)\s*\.\s*location\b` +
		`|\blocation\s*\.\s*(hash|search|href|pathname)\b` +
		`|\bprocess\s*\.\s*(argv|env)\b` +
		`|\bdocument\s*\.\s*(cookie|referrer|URL)\b`)

// dangerousIdentifiers are bare binding names treated as user input on sight.
var dangerousIdentifiers = map[string]bool{
	"req":      true,
	"request":  true,
	"query":    true,
	"body":     true,
	"params":   true,
	"payload":  true,
	"args":     true,
	"argv":     true,
	"url":      true,
	"input":    true,
	"userdata": true,
}

// suspiciousSubstrings flag identifier names that merely contain an
// input-ish fragment.
var suspiciousSubstrings = []string{"input", "data", "param"}

// validationSignatures are textual shapes that count as validation when they
// appear in a preceding statement: allowlist membership checks, validateX()
// calls, hostname equality, and prefix/suffix/regex tests.
var validationSignatures = []struct {
	name string
	re   *regexp.Regexp
}{
	{"allowlist-membership", regexp.MustCompile(`(?i)\b(whitelist|allowlist|allowed\w*)\b|\.includes\s*\(`)},
	{"validate-call", regexp.MustCompile(`\bvalidate\w*\s*\(`)},
	{"hostname-equality", regexp.MustCompile(`\.\s*hostname\s*===?`)},
	{"prefix-suffix-test", regexp.MustCompile(`\.\s*(startsWith|endsWith)\s*\(`)},
	{"regex-test", regexp.MustCompile(`\.\s*(match|test)\s*\(`)},
}
