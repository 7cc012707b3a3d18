// Package match decides which registered environment, if any, owns a given
// page URL. It is a pure lookup over caller-supplied data: no state, no side
// effects.
//
// The matcher gates when stored secrets are exposed to a page, so both sides
// of every comparison go through the same normalization. Any asymmetry there
// silently breaks matching.
package match

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/loginkeeper/internal/models"
)

// WildcardSuffix marks a login URL that matches any page under its prefix.
const WildcardSuffix = "/*"

// IsWebURL reports whether candidate is a plain http(s) URL. Browser-internal
// pages (chrome://, about:, file:) never match an environment.
func IsWebURL(candidate string) bool {
	return strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://")
}

// NormalizeURL collapses raw to "scheme://host/path", dropping the query
// string and fragment and stripping exactly one trailing slash.
// Normalization is best-effort: if raw does not parse, it is returned
// unchanged so exact comparison still has a chance.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	s := u.Scheme + "://" + u.Host + u.Path
	return strings.TrimSuffix(s, "/")
}

// Find returns the first environment whose login URL matches candidate,
// evaluated in slice order (registration order, first success wins).
//
// Per environment the policy is:
//  1. exact match on the normalized forms;
//  2. if the normalized login URL ends in "/*", a plain prefix match on the
//     stripped form. The check is not path-segment aware: "/login/*" matches
//     "/login/2/x" and also "/loginextra".
//
// There is deliberately no broader "contains" fallback: an environment
// registered with a bare domain must not match every page on that domain.
//
// An empty or non-http(s) candidate short-circuits to not-found. An
// environment whose login URL cannot be parsed is skipped, not fatal.
func Find(candidate string, envs []models.Environment) (*models.Environment, bool) {
	if !IsWebURL(candidate) {
		return nil, false
	}

	normalized := NormalizeURL(candidate)

	for i := range envs {
		env := &envs[i]

		if _, err := url.Parse(env.LoginURL); err != nil {
			continue
		}
		target := NormalizeURL(env.LoginURL)
		if target == "" {
			continue
		}

		if normalized == target {
			return env, true
		}

		if strings.HasSuffix(target, WildcardSuffix) {
			prefix := strings.TrimSuffix(target, WildcardSuffix)
			if strings.HasPrefix(normalized, prefix) {
				return env, true
			}
		}
	}

	return nil, false
}
