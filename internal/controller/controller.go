package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"careportal/internal/models"
)

type Service interface {
	ListOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error)
	UpdateOrganisationAccess(ctx context.Context, clientId, orgId string, action models.OrgAction) ([]models.OrganisationAccess, error)
	ReplaceOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) ([]models.OrganisationAccess, error)
	ResetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error)

	ClientRole(ctx context.Context, clientId string) (models.Role, error)
	SetClientRole(ctx context.Context, clientId string, role models.Role) error
	HelpFor(ctx context.Context, clientId, path string, query url.Values, roleHint models.Role) models.HelpTarget
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

//// Organisations

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// GET /api/v1/clients/{clientId}/organisations
func (c *Controller) GetOrganisations(w http.ResponseWriter, r *http.Request) {
	clientId := r.PathValue("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty clientId supplied")
		return
	}

	orgs, err := c.service.ListOrganisations(r.Context(), clientId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, orgs)
}

// POST /api/v1/clients/{clientId}/organisations/{orgId}
func (c *Controller) UpdateOrganisation(w http.ResponseWriter, r *http.Request) {
	clientId := r.PathValue("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty clientId supplied")
		return
	}

	orgId := r.PathValue("orgId")
	if len(orgId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty orgId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseUpdateOrganisationReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	orgs, err := c.service.UpdateOrganisationAccess(r.Context(), clientId, orgId, req.Action)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, orgs)
}

// PUT /api/v1/clients/{clientId}/organisations
func (c *Controller) ReplaceOrganisations(w http.ResponseWriter, r *http.Request) {
	clientId := r.PathValue("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty clientId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	orgs, err := ParseOrganisationListReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	orgs, err = c.service.ReplaceOrganisations(r.Context(), clientId, orgs)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, orgs)
}

// POST /api/v1/clients/{clientId}/organisations/reset
func (c *Controller) ResetOrganisations(w http.ResponseWriter, r *http.Request) {
	clientId := r.PathValue("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty clientId supplied")
		return
	}

	orgs, err := c.service.ResetOrganisations(r.Context(), clientId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, orgs)
}

//// Roles and help

// GET /api/v1/clients/{clientId}/role
func (c *Controller) ClientRole(w http.ResponseWriter, r *http.Request) {
	clientId := r.PathValue("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty clientId supplied")
		return
	}

	role, err := c.service.ClientRole(r.Context(), clientId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, RoleResp{Role: role})
}

// PUT /api/v1/clients/{clientId}/role
func (c *Controller) SetClientRole(w http.ResponseWriter, r *http.Request) {
	clientId := r.PathValue("clientId")
	if len(clientId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty clientId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseRoleReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err = c.service.SetClientRole(r.Context(), clientId, req.Role); err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, RoleResp{Role: req.Role})
}

// GET /api/v1/help/target
func (c *Controller) HelpTarget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rawPath := query.Get("path")
	if len(rawPath) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty path supplied")
		return
	}

	// The path parameter may carry its own query string (role, org and
	// friends), so it is parsed as a URL of its own.
	view, err := url.Parse(rawPath)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "malformed path supplied: "+rawPath)
		return
	}

	clientId := query.Get("clientId")
	roleHint := models.Role(query.Get("role"))

	target := c.service.HelpFor(r.Context(), clientId, view.Path, view.Query(), roleHint)
	c.marshalResponse(w, target)
}

//// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}

	_, err = w.Write(data)
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoOrganisation):
		c.errorResponse(w, http.StatusNotFound, "requested organisation is not in the client's access list")
	case errors.Is(err, models.ErrInvalidAction):
		c.errorResponse(w, http.StatusBadRequest, "unknown organisation access action")
	case errors.Is(err, models.ErrNoRole):
		c.errorResponse(w, http.StatusNotFound, "no role recorded for client")
	case errors.Is(err, models.ErrFetchFailed):
		c.errorResponse(w, http.StatusBadGateway, "organisation access operation failed")
	default:
		log.Println("controller:", err)
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	_, err = w.Write(d)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
