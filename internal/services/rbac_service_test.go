package services

import (
	"testing"

	"renttracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func principalWith(codenames ...string) *models.Principal {
	return models.NewPrincipal(&models.User{ID: uuid.New(), Username: "u"}, codenames)
}

func TestNavigation_OnlyViewableEntities(t *testing.T) {
	svc := NewRBACService()

	links := svc.Navigation(principalWith("view_property", "view_payment", "add_tenant"))

	assert.Equal(t, []NavLink{
		{Label: "Properties", Path: "/properties/"},
		{Label: "Payments", Path: "/payments/"},
	}, links)
}

func TestNavigation_AnonymousSeesNothing(t *testing.T) {
	assert.Empty(t, NewRBACService().Navigation(nil))
}

func TestNavigation_LLCViewerGetsDashboard(t *testing.T) {
	links := NewRBACService().Navigation(principalWith("view_llc", "view_auditlog"))

	assert.Equal(t, []string{"/dashboard/", "/llcs/", "/audit-logs/"}, []string{links[0].Path, links[1].Path, links[2].Path})
}

func TestListActions(t *testing.T) {
	svc := NewRBACService()

	assert.Equal(t, ListActions{CanAdd: true}, svc.ListActions(principalWith("view_property", "add_property"), models.EntityProperty))
	assert.Equal(t, ListActions{}, svc.ListActions(principalWith("view_property"), models.EntityProperty))
	assert.Equal(t, ListActions{CanChange: true, CanDelete: true},
		svc.ListActions(principalWith("change_llc", "delete_llc"), models.EntityLLC))
}
