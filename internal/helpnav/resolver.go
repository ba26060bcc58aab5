package helpnav

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"careportal/internal/models"
)

// ResolveTarget maps the current view onto a help target. Pre-login routes
// classify on path shape alone and override any resolved role; everything
// else goes through the viewer role's matcher table in declared order, with
// the first matching rule winning. An unmatched path falls back to the
// role's dashboard target.
func ResolveTarget(role models.Role, path string, query url.Values) models.HelpTarget {
	if target, ok := preloginTarget(path, query); ok {
		return target
	}
	return postloginTarget(role, path)
}

// ResolveURL is ResolveTarget over a raw URL, path plus optional query.
func ResolveURL(role models.Role, rawURL string) (models.HelpTarget, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.HelpTarget{}, fmt.Errorf("helpnav.ResolveURL: %w", err)
	}
	return ResolveTarget(role, u.Path, u.Query()), nil
}

// Prelogin returns whether the path belongs to the pre-login umbrella.
func Prelogin(path string) bool {
	_, ok := preloginTarget(path, nil)
	return ok
}

//// Pre-login classification

func preloginTarget(path string, query url.Values) (models.HelpTarget, bool) {
	p := normalizePath(path)

	switch {
	case p == "" || p == "/" || p == "/login" || p == "/signin" || p == "/sign-in":
		return TargetLogin, true

	case hasRoutePrefix(p, "/role"),
		hasRoutePrefix(p, "/signup"),
		hasRoutePrefix(p, "/register"):
		return roleSelectTarget(query), true

	case hasRoutePrefix(p, "/organisation"):
		return organisationSetupTarget(p, query), true
	}

	return models.HelpTarget{}, false
}

// roleSelectTarget branches the role-selection route (and its legacy signup
// aliases) on the role and org query parameters. Anything unrecognised
// lands back on role selection.
func roleSelectTarget(query url.Values) models.HelpTarget {
	switch models.Role(query.Get("role")) {
	case models.RoleFamily:
		return TargetSignupFamily
	case models.RoleCarer:
		return TargetSignupCarer
	case models.RoleManagement:
		if query.Get("org") == "" {
			return TargetManagementOrgChoice
		}
		return TargetSignupManagement
	default:
		return TargetRoleSelect
	}
}

// organisationSetupTarget: the create and join segments (or a preselected
// org) mean the viewer is already signing an organisation up; otherwise
// they are still choosing one.
func organisationSetupTarget(p string, query url.Values) models.HelpTarget {
	seg := strings.Trim(strings.TrimPrefix(p, "/organisation"), "/")
	if seg == "create" || seg == "join" || query.Get("org") != "" {
		return TargetSignupManagement
	}
	return TargetManagementOrgChoice
}

//// Post-login classification

type matchKind int

const (
	matchPrefix matchKind = iota
	matchContains
	matchRegexp
)

type pathRule struct {
	kind    matchKind
	pattern string
	re      *regexp.Regexp
	target  models.HelpTarget
}

func prefixRule(pattern string, target models.HelpTarget) pathRule {
	return pathRule{kind: matchPrefix, pattern: pattern, target: target}
}

func containsRule(pattern string, target models.HelpTarget) pathRule {
	return pathRule{kind: matchContains, pattern: pattern, target: target}
}

func regexpRule(pattern string, target models.HelpTarget) pathRule {
	return pathRule{kind: matchRegexp, re: regexp.MustCompile(pattern), target: target}
}

func (r pathRule) matches(p string) bool {
	switch r.kind {
	case matchPrefix:
		return strings.HasPrefix(p, r.pattern)
	case matchContains:
		return strings.Contains(p, r.pattern)
	case matchRegexp:
		return r.re.MatchString(p)
	default:
		return false
	}
}

// Per-role matcher tables, evaluated in declared order against the
// lowercased path.
var roleRules = map[models.Role][]pathRule{
	models.RoleFamily: {
		regexpRule(`^/calendar/[^/]+/(budget[_-]report|category[_-]cost)`, TargetFamilyCalendarBudget),
		regexpRule(`transaction[_-]?history`, TargetFamilyTransactionHistory),
		prefixRule("/calendar", TargetFamilyCalendar),
		prefixRule("/profile", TargetFamilyProfile),
		prefixRule("/family_dashboard", TargetFamilyDashboard),
	},
	models.RoleCarer: {
		prefixRule("/client_profile", TargetCarerClientProfile),
		prefixRule("/timesheet", TargetCarerTimesheets),
		containsRule("visit", TargetCarerVisits),
		prefixRule("/carer_dashboard", TargetCarerDashboard),
	},
	models.RoleManagement: {
		prefixRule("/staff_list", TargetManagementStaffList),
		prefixRule("/staff_schedule", TargetManagementStaffSchedule),
		prefixRule("/client_list", TargetManagementClientList),
		prefixRule("/client_profile", TargetManagementClientProfile),
		prefixRule("/organisation_settings", TargetManagementOrgSettings),
		prefixRule("/icon_dashboard", TargetManagementDashboard),
	},
}

var roleDefaults = map[models.Role]models.HelpTarget{
	models.RoleFamily:     TargetFamilyDashboard,
	models.RoleCarer:      TargetCarerDashboard,
	models.RoleManagement: TargetManagementDashboard,
}

func postloginTarget(role models.Role, path string) models.HelpTarget {
	if !models.ValidRole(role) {
		role = models.RoleFamily
	}

	p := normalizePath(path)
	for _, rule := range roleRules[role] {
		if rule.matches(p) {
			return rule.target
		}
	}
	return roleDefaults[role]
}

//// Service

func normalizePath(path string) string {
	p := strings.ToLower(strings.TrimSpace(path))
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func hasRoutePrefix(p, route string) bool {
	return p == route || strings.HasPrefix(p, route+"/")
}
