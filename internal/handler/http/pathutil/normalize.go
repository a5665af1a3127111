package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	// pages
	{Pattern: regexp.MustCompile(`^/article/\d+$`), Template: "/article/:id"},

	// JSON API
	{Pattern: regexp.MustCompile(`^/api/teams/\d+$`), Template: "/api/teams/:id"},
	{Pattern: regexp.MustCompile(`^/api/leagues/\d+$`), Template: "/api/leagues/:id"},
	{Pattern: regexp.MustCompile(`^/api/articles/\d+$`), Template: "/api/articles/:id"},
	{Pattern: regexp.MustCompile(`^/api/articles/\d+/approve$`), Template: "/api/articles/:id/approve"},
	{Pattern: regexp.MustCompile(`^/api/articles/\d+/unapprove$`), Template: "/api/articles/:id/unapprove"},
	{Pattern: regexp.MustCompile(`^/api/newsletters/\d+$`), Template: "/api/newsletters/:id"},

	// users
	{Pattern: regexp.MustCompile(`^/api/users/\d+$`), Template: "/api/users/:id"},
	{Pattern: regexp.MustCompile(`^/api/users/\d+/role$`), Template: "/api/users/:id/role"},
	{Pattern: regexp.MustCompile(`^/api/users/\d+/following$`), Template: "/api/users/:id/following"},
	{Pattern: regexp.MustCompile(`^/api/users/\d+/followers$`), Template: "/api/users/:id/followers"},
	{Pattern: regexp.MustCompile(`^/api/users/me/follows/\d+$`), Template: "/api/users/me/follows/:id"},
}

// NormalizePath converts paths with IDs (e.g. /article/123/) to their template
// form (/article/:id) so metric labels stay bounded. Query strings and the
// trailing slash are dropped; unknown paths are returned unchanged.
//
// Examples:
//
//	NormalizePath("/article/123/")          // "/article/:id"
//	NormalizePath("/api/teams/7/")          // "/api/teams/:id"
//	NormalizePath("/api/leagues/")          // "/api/leagues"
//	NormalizePath("/health")                // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// ルート以外は末尾スラッシュを落とす
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}

// GetExpectedCardinality returns the expected number of unique path labels
// after normalization: the templates plus roughly ten static endpoints.
func GetExpectedCardinality() int {
	return len(pathPatterns) + 10
}
