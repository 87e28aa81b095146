// Package sanitize provides HTML sanitization for user-generated content.
// Uses bluemonday to strip dangerous HTML (script tags, event handlers,
// javascript: URLs). Post bodies keep safe formatting; single-line fields
// such as titles are reduced to plain text.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are built once and shared; bluemonday policies are safe for
// concurrent use after construction.
var (
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	policyOnce   sync.Once
)

// policies returns the shared sanitization policies, initializing them on
// first call.
func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()

		// Links in posts open off-site; make that explicit and safe.
		ugcPolicy.RequireNoFollowOnLinks(true)
		ugcPolicy.AddTargetBlankToFullyQualifiedLinks(true)

		strictPolicy = bluemonday.StrictPolicy()
	})
	return ugcPolicy, strictPolicy
}

// HTML sanitizes user-generated HTML content by stripping dangerous elements
// (script, iframe, event handlers, javascript: URLs) while preserving safe
// formatting tags.
//
// This MUST be called on all user-provided HTML before storing it in the
// database. The output is safe to render via innerHTML.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	ugc, _ := policies()
	return strings.TrimSpace(ugc.Sanitize(input))
}

// Text removes every tag from input and returns plain text. Entities are
// decoded again so "Tom & Jerry" survives unchanged; callers rendering the
// result into HTML must escape it like any other text.
func Text(input string) string {
	if input == "" {
		return ""
	}
	_, strict := policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
