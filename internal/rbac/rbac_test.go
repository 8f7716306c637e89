package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role rbac.Role
		perm rbac.Permission
		want bool
	}{
		{"TresorierCreatesTransactions", rbac.RoleTresorier, rbac.PermCreateTransaction, true},
		{"TresorierReplies", rbac.RoleTresorier, rbac.PermReplyMessage, true},
		{"BureauViewsMembres", rbac.RoleBureau, rbac.PermViewMembres, true},
		{"BureauRecordsPayments", rbac.RoleBureau, rbac.PermAddPaiement, true},
		{"BureauCannotEditBudget", rbac.RoleBureau, rbac.PermEditBudget, false},
		{"BureauCannotReply", rbac.RoleBureau, rbac.PermReplyMessage, false},
		{"JoueurSendsMessages", rbac.RoleJoueur, rbac.PermSendMessage, true},
		{"JoueurCannotViewTransactions", rbac.RoleJoueur, rbac.PermViewTransactions, false},
		{"JoueurPersonalDashboardOnly", rbac.RoleJoueur, rbac.PermViewDashboardGlobal, false},
		{"UnknownRoleGetsNothing", rbac.Role("admin"), rbac.PermViewDashboard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.HasPermission(tt.role, tt.perm))
		})
	}
}

func TestCanAccessRoute(t *testing.T) {
	tests := []struct {
		name string
		role rbac.Role
		path string
		want bool
	}{
		{"JoueurDeniedMembres", rbac.RoleJoueur, "/dashboard/membres", false},
		{"TresorierAllowedMembres", rbac.RoleTresorier, "/dashboard/membres", true},
		{"JoueurAllowedDashboard", rbac.RoleJoueur, "/dashboard", true},
		{"JoueurAllowedMessagesSubpath", rbac.RoleJoueur, "/dashboard/messages/123", true},
		{"BureauDeniedParametres", rbac.RoleBureau, "/dashboard/parametres", false},
		{"PrefixIsNotEnough", rbac.RoleJoueur, "/dashboard/messagesarchive", false},
		{"UnknownRoleDenied", rbac.Role(""), "/dashboard", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.CanAccessRoute(tt.role, tt.path))
		})
	}
}

func TestCanExport(t *testing.T) {
	tests := []struct {
		name     string
		role     rbac.Role
		fonction string
		want     bool
	}{
		{"TresorierAlways", rbac.RoleTresorier, "", true},
		{"BureauSecretaireGeneral", rbac.RoleBureau, "Secrétaire Général", true},
		{"BureauPresident", rbac.RoleBureau, "Président", true},
		{"BureauTresorierAdjoint", rbac.RoleBureau, "Trésorier Adjoint", false},
		{"BureauNoFunction", rbac.RoleBureau, "", false},
		{"JoueurNever", rbac.RoleJoueur, "Président", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.CanExport(tt.role, tt.fonction))
		})
	}
}
