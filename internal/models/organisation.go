package models

type OrgStatus string

const (
	OrgApproved OrgStatus = "approved"
	OrgPending  OrgStatus = "pending"
	OrgRevoked  OrgStatus = "revoked"
)

func ValidOrgStatus(s OrgStatus) bool {
	switch s {
	case OrgApproved, OrgPending, OrgRevoked:
		return true
	default:
		return false
	}
}

// TranslateOrgStatus maps legacy backend statuses onto the dashboard
// vocabulary. Only "active" is remapped, everything else passes through.
func TranslateOrgStatus(s OrgStatus) OrgStatus {
	if s == "active" {
		return OrgApproved
	}
	return s
}

type OrgAction string

const (
	ActionApprove OrgAction = "approve"
	ActionReject  OrgAction = "reject"
	ActionRevoke  OrgAction = "revoke"
)

func ValidOrgAction(a OrgAction) bool {
	switch a {
	case ActionApprove, ActionReject, ActionRevoke:
		return true
	default:
		return false
	}
}

// Status returns the status an action transitions a record into. Reject
// collapses into revoked rather than removing the record; the record stays
// listed either way.
func (a OrgAction) Status() (OrgStatus, bool) {
	switch a {
	case ActionApprove:
		return OrgApproved, true
	case ActionReject, ActionRevoke:
		return OrgRevoked, true
	default:
		return "", false
	}
}

type OrganisationAccess struct {
	Id     string    `json:"id"`
	Name   string    `json:"name"`
	Status OrgStatus `json:"status"`
}
