// Package catalog filters the project board and the mentor directory.
//
// Filters are pure: they never modify their input and return a new slice that
// preserves input order.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// Wildcard values that disable a category predicate.
const (
	All       = "All"
	AllFields = "All Fields"
)

var fold = cases.Fold()

// normalize trims and case-folds s for comparison.
func normalize(s string) string {
	return fold.String(strings.TrimSpace(s))
}

// isWildcard reports whether a category value matches everything.
func isWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All) || strings.EqualFold(v, AllFields)
}

func categoryMatch(want, got string) bool {
	if isWildcard(want) {
		return true
	}
	return normalize(want) == normalize(got)
}

// queryMatch reports whether the folded query is a substring of any field or skill.
// An empty query matches everything.
func queryMatch(q string, skills []string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(normalize(f), q) {
			return true
		}
	}
	for _, s := range skills {
		if strings.Contains(normalize(s), q) {
			return true
		}
	}
	return false
}

// ProjectFilter selects projects. Zero value matches all.
type ProjectFilter struct {
	Query      string `form:"q" json:"q"`
	Status     string `form:"status" json:"status"`
	Difficulty string `form:"difficulty" json:"difficulty"`
	Domain     string `form:"domain" json:"domain"`
	Type       string `form:"type" json:"type"`
}

// Normalized returns f with the query folded and wildcards collapsed to "".
// Two filters that select the same projects normalize to the same value.
func (f ProjectFilter) Normalized() ProjectFilter {
	return ProjectFilter{
		Query:      normalize(f.Query),
		Status:     canonicalCategory(f.Status),
		Difficulty: canonicalCategory(f.Difficulty),
		Domain:     canonicalCategory(f.Domain),
		Type:       canonicalCategory(f.Type),
	}
}

// Match reports whether p passes every predicate of f.
func (f ProjectFilter) Match(p *models.Project) bool {
	return categoryMatch(f.Status, p.Status) &&
		categoryMatch(f.Difficulty, p.Difficulty) &&
		categoryMatch(f.Domain, p.Domain) &&
		categoryMatch(f.Type, p.Type) &&
		queryMatch(normalize(f.Query), p.Skills, p.Title, p.PostedBy)
}

// FilterProjects returns the projects matching f, in input order.
func FilterProjects(projects []models.Project, f ProjectFilter) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for i := range projects {
		if f.Match(&projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out
}

// MentorFilter selects mentors. Zero value matches all.
type MentorFilter struct {
	Query string `form:"q" json:"q"`
	Field string `form:"field" json:"field"`
}

// Normalized returns f with the query folded and the wildcard collapsed to "".
func (f MentorFilter) Normalized() MentorFilter {
	return MentorFilter{
		Query: normalize(f.Query),
		Field: canonicalCategory(f.Field),
	}
}

// Match reports whether m passes every predicate of f.
func (f MentorFilter) Match(m *models.Mentor) bool {
	return categoryMatch(f.Field, m.Field) &&
		queryMatch(normalize(f.Query), m.Skills, m.Name, m.Company)
}

// FilterMentors returns the mentors matching f, in input order.
func FilterMentors(mentors []models.Mentor, f MentorFilter) []models.Mentor {
	out := make([]models.Mentor, 0, len(mentors))
	for i := range mentors {
		if f.Match(&mentors[i]) {
			out = append(out, mentors[i])
		}
	}
	return out
}

func canonicalCategory(v string) string {
	if isWildcard(v) {
		return ""
	}
	return normalize(v)
}
