// Package htmlsanitize cleans user-supplied rich text (internship and task
// descriptions) before it is stored.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, unsafe URLs and any markup not
// suitable for user-generated content. Plain text passes through apart from
// HTML escaping of special characters.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}
