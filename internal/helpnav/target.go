package helpnav

import "careportal/internal/models"

// Help targets for the pre-login flows.
var (
	TargetLogin               = models.HelpTarget{PageKey: "prelogin/login", SectionId: "login"}
	TargetRoleSelect          = models.HelpTarget{PageKey: "prelogin/role-select", SectionId: "role-select"}
	TargetSignupFamily        = models.HelpTarget{PageKey: "prelogin/signup-family", SectionId: "signup-family"}
	TargetSignupCarer         = models.HelpTarget{PageKey: "prelogin/signup-carer", SectionId: "signup-carer"}
	TargetSignupManagement    = models.HelpTarget{PageKey: "prelogin/signup-management", SectionId: "signup-management"}
	TargetManagementOrgChoice = models.HelpTarget{PageKey: "prelogin/management-org-choice", SectionId: "management-org-choice"}
)

// Help targets for the family views.
var (
	TargetFamilyDashboard          = models.HelpTarget{PageKey: "family/dashboard", SectionId: "family-dashboard-overview"}
	TargetFamilyCalendar           = models.HelpTarget{PageKey: "family/calendar", SectionId: "family-calendar"}
	TargetFamilyCalendarBudget     = models.HelpTarget{PageKey: "family/calendar-budget", SectionId: "family-calendar-budget"}
	TargetFamilyTransactionHistory = models.HelpTarget{PageKey: "family/transaction-history", SectionId: "family-transaction-history"}
	TargetFamilyProfile            = models.HelpTarget{PageKey: "family/profile", SectionId: "family-profile"}
)

// Help targets for the carer views.
var (
	TargetCarerDashboard     = models.HelpTarget{PageKey: "carer/dashboard", SectionId: "carer-dashboard-overview"}
	TargetCarerClientProfile = models.HelpTarget{PageKey: "carer/client-profile", SectionId: "carer-client-profile"}
	TargetCarerVisits        = models.HelpTarget{PageKey: "carer/visits", SectionId: "carer-visits"}
	TargetCarerTimesheets    = models.HelpTarget{PageKey: "carer/timesheets", SectionId: "carer-timesheets"}
)

// Help targets for the management views.
var (
	TargetManagementDashboard     = models.HelpTarget{PageKey: "management/dashboard", SectionId: "management-dashboard-overview"}
	TargetManagementStaffList     = models.HelpTarget{PageKey: "management/staff-list", SectionId: "management-staff-list"}
	TargetManagementStaffSchedule = models.HelpTarget{PageKey: "management/staff-schedule", SectionId: "management-staff-schedule"}
	TargetManagementClientList    = models.HelpTarget{PageKey: "management/client-list", SectionId: "management-client-list"}
	TargetManagementClientProfile = models.HelpTarget{PageKey: "management/client-profile", SectionId: "management-client-profile"}
	TargetManagementOrgSettings   = models.HelpTarget{PageKey: "management/organisation-settings", SectionId: "management-organisation-settings"}
)
