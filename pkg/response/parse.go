// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package response splits the generation service's answer into its HTML
// communiqué and its dashboard JSON.
package response

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/prototipo-projetos/docbrief/pkg/prompt"
)

// EmptyDashboard is used whenever no valid dashboard JSON is available.
const EmptyDashboard = "[]"

// Matching is greedy: with repeated markers the segment spans from the first
// opener to the last closer.
var (
	htmlBlock = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(prompt.HTMLOpen) + `(.*)` + regexp.QuoteMeta(prompt.HTMLClose))
	jsonBlock = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(prompt.JSONOpen) + `(.*)` + regexp.QuoteMeta(prompt.JSONClose))
)

// Result is the parsed answer. Dashboard always holds syntactically valid
// JSON.
type Result struct {
	HTML      string
	Dashboard string

	HTMLFound      bool
	DashboardFound bool
	// DashboardValid is false when the JSON block was present but unparsable
	// and Dashboard fell back to EmptyDashboard.
	DashboardValid bool
}

// Parse extracts both blocks from raw. It never fails: a missing HTML block
// yields "", a missing or invalid JSON block yields EmptyDashboard.
func Parse(raw string) Result {
	res := Result{Dashboard: EmptyDashboard}

	if m := htmlBlock.FindStringSubmatch(raw); m != nil {
		res.HTML = strings.TrimSpace(m[1])
		res.HTMLFound = true
	}

	m := jsonBlock.FindStringSubmatch(raw)
	if m == nil {
		res.DashboardValid = true
		return res
	}
	res.DashboardFound = true

	segment := unfence(strings.TrimSpace(m[1]))
	if json.Valid([]byte(segment)) {
		res.Dashboard = segment
		res.DashboardValid = true
	}
	return res
}

// unfence strips a surrounding Markdown code fence such as ```json ... ```.
func unfence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(inner, '\n')
	if nl < 0 {
		return s
	}
	return strings.TrimSpace(inner[nl+1:])
}

// DashboardItems counts the top-level entries of a dashboard array. Anything
// other than an array counts as zero.
func DashboardItems(dashboard string) int {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(dashboard), &items); err != nil {
		return 0
	}
	return len(items)
}
