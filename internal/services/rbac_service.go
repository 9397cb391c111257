package services

import (
	"renttracker/internal/models"
)

// NavLink is one entry of the navigation menu.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// ListActions tells a list view which row and page actions to offer.
type ListActions struct {
	CanAdd    bool `json:"can_add"`
	CanChange bool `json:"can_change"`
	CanDelete bool `json:"can_delete"`
}

type RBACService interface {
	// Navigation returns the links the principal may follow, in menu order.
	Navigation(p *models.Principal) []NavLink
	ListActions(p *models.Principal, entity string) ListActions
}

type navEntry struct {
	link   NavLink
	entity string
}

var navEntries = []navEntry{
	{NavLink{Label: "Dashboard", Path: "/dashboard/"}, models.EntityLLC},
	{NavLink{Label: "LLCs", Path: "/llcs/"}, models.EntityLLC},
	{NavLink{Label: "Properties", Path: "/properties/"}, models.EntityProperty},
	{NavLink{Label: "Tenants", Path: "/tenants/"}, models.EntityTenant},
	{NavLink{Label: "Payments", Path: "/payments/"}, models.EntityPayment},
	{NavLink{Label: "Audit Log", Path: "/audit-logs/"}, models.EntityAuditLog},
}

type rbacService struct{}

func NewRBACService() RBACService {
	return &rbacService{}
}

func (s *rbacService) Navigation(p *models.Principal) []NavLink {
	links := []NavLink{}
	for _, e := range navEntries {
		if p.Can(models.PermView, e.entity) {
			links = append(links, e.link)
		}
	}
	return links
}

func (s *rbacService) ListActions(p *models.Principal, entity string) ListActions {
	return ListActions{
		CanAdd:    p.Can(models.PermAdd, entity),
		CanChange: p.Can(models.PermChange, entity),
		CanDelete: p.Can(models.PermDelete, entity),
	}
}
