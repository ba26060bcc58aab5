package controller

import (
	"encoding/json"
	"fmt"

	"careportal/internal/models"
)

// Organisation access update request

type UpdateOrganisationReq struct {
	Action models.OrgAction `json:"action"`
}

func ParseUpdateOrganisationReq(data []byte) (*UpdateOrganisationReq, error) {
	t := &UpdateOrganisationReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if !models.ValidOrgAction(t.Action) {
		return nil, fmt.Errorf("invalid action supplied: %s, should be one of: %s, %s, %s",
			string(t.Action), models.ActionApprove, models.ActionReject, models.ActionRevoke)
	}

	return t, nil
}

// Organisation list replacement request

func ParseOrganisationListReq(data []byte) ([]models.OrganisationAccess, error) {
	var orgs []models.OrganisationAccess

	err := json.Unmarshal(data, &orgs)
	if err != nil {
		return nil, err
	}

	for i := range orgs {
		orgs[i].Status = models.TranslateOrgStatus(orgs[i].Status)
		if !models.ValidOrgStatus(orgs[i].Status) {
			return nil, fmt.Errorf("invalid status supplied: %s, should be one of: %s, %s, %s",
				string(orgs[i].Status), models.OrgApproved, models.OrgPending, models.OrgRevoked)
		}
		if err = checkLengthLimit(orgs[i].Id, "id", 100); err != nil {
			return nil, err
		}
		if err = checkLengthLimit(orgs[i].Name, "name", 200); err != nil {
			return nil, err
		}
	}

	return orgs, nil
}

// Role requests

type RoleReq struct {
	Role models.Role `json:"role"`
}

type RoleResp struct {
	Role models.Role `json:"role"`
}

func ParseRoleReq(data []byte) (*RoleReq, error) {
	t := &RoleReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if !models.ValidRole(t.Role) {
		return nil, fmt.Errorf("invalid role supplied: %s, should be one of: %s, %s, %s",
			string(t.Role), models.RoleFamily, models.RoleCarer, models.RoleManagement)
	}

	return t, nil
}

// Service

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("field '%s' exceeds length limit: %d / %d", fieldName, len(str), limit)
	}
	return nil
}
