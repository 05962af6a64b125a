// Package detect implements the sensitive-content heuristic applied to
// fetched page excerpts.
//
// The detector is a fixed, case-insensitive disjunction of credential
// and secret indicator terms. It is deliberately permissive: false
// positives only add a hint flag to a finding, while a false negative
// hides material the operator should triage. It is a heuristic, not a
// security guarantee.
package detect

import "regexp"

// sensitivePattern matches common credential and secret markers:
// password-style keys, AWS access key fields, private-key preambles,
// and generic API key and access token names.
var sensitivePattern = regexp.MustCompile(
	`(?i)(password|passwd|pwd|aws_access_key_id|aws_secret_access_key|private key|BEGIN PRIVATE KEY|api_key|access_token)`,
)

// ContainsSensitive reports whether text contains any sensitive
// indicator term. It never fails; empty input is simply not sensitive.
func ContainsSensitive(text string) bool {
	return text != "" && sensitivePattern.MatchString(text)
}
