// Package rbac holds the static role/permission model of the club.
// It is a pure lookup layer: no state, no storage, no transitions.
package rbac

import "strings"

// Role is the access level carried by an authenticated session.
type Role string

const (
	RoleTresorier Role = "tresorier"
	RoleBureau    Role = "bureau"
	RoleJoueur    Role = "joueur"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTresorier, RoleBureau, RoleJoueur:
		return true
	}

	return false
}

// Permission enumerates every action the application gates on.
type Permission int

const (
	PermViewDashboard Permission = iota
	PermViewDashboardGlobal
	PermViewDashboardPersonal
	PermViewMembres
	PermViewTransactions
	PermViewBudget
	PermViewRapports
	PermViewParametres
	PermViewMessages

	PermCreateTransaction
	PermEditTransaction
	PermDeleteTransaction
	PermCreateMembre
	PermEditMembre
	PermDeleteMembre
	PermEditBudget
	PermAddPaiement

	PermExportData

	PermSendMessage
	PermReplyMessage
)

// ExportAllowedFunctions lists the bureau functions that unlock exports.
var ExportAllowedFunctions = []string{"Président", "Manager", "Secrétaire Général"}

var rolePermissions = map[Role][]Permission{
	RoleTresorier: {
		PermViewDashboard,
		PermViewDashboardGlobal,
		PermViewMembres,
		PermViewTransactions,
		PermViewBudget,
		PermViewRapports,
		PermViewParametres,
		PermViewMessages,

		PermCreateTransaction,
		PermEditTransaction,
		PermDeleteTransaction,
		PermCreateMembre,
		PermEditMembre,
		PermDeleteMembre,
		PermEditBudget,
		PermAddPaiement,

		PermExportData,

		PermSendMessage,
		PermReplyMessage,
	},
	RoleBureau: {
		PermViewDashboard,
		PermViewDashboardGlobal,
		PermViewMembres,
		PermViewTransactions,
		PermViewBudget,
		PermViewRapports,
		PermViewMessages,

		PermAddPaiement,

		PermSendMessage,
	},
	RoleJoueur: {
		PermViewDashboard,
		PermViewDashboardPersonal,
		PermViewMessages,

		PermSendMessage,
	},
}

// Route names for the dashboard sections, shared between the route
// gate and the navigation payload sent to clients.
const (
	RouteDashboard    = "/dashboard"
	RouteMembres      = "/dashboard/membres"
	RouteTransactions = "/dashboard/transactions"
	RouteBudget       = "/dashboard/budget"
	RouteRapports     = "/dashboard/rapports"
	RouteMessages     = "/dashboard/messages"
	RouteParametres   = "/dashboard/parametres"
)

var roleRoutes = map[Role][]string{
	RoleTresorier: {
		RouteDashboard,
		RouteMembres,
		RouteTransactions,
		RouteBudget,
		RouteRapports,
		RouteMessages,
		RouteParametres,
	},
	RoleBureau: {
		RouteDashboard,
		RouteMembres,
		RouteTransactions,
		RouteBudget,
		RouteRapports,
		RouteMessages,
	},
	RoleJoueur: {
		RouteDashboard,
		RouteMessages,
	},
}

// HasPermission reports whether role is granted p. Unknown roles get nothing.
func HasPermission(role Role, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == p {
			return true
		}
	}

	return false
}

// CanAccessRoute reports whether the path is navigable for the role.
// A path matches when it equals an allowed entry, or is a sub-path of
// one. The dashboard root only grants itself, otherwise every role
// holding it would reach every section beneath it.
func CanAccessRoute(role Role, path string) bool {
	for _, allowed := range roleRoutes[role] {
		if path == allowed {
			return true
		}
		if allowed != RouteDashboard && strings.HasPrefix(path, allowed+"/") {
			return true
		}
	}

	return false
}

// AllowedRoutes lists the navigable sections for a role, dashboard
// root first. The slice is a copy.
func AllowedRoutes(role Role) []string {
	routes := roleRoutes[role]
	out := make([]string, len(routes))
	copy(out, routes)
	return out
}

// CanExport reports whether exports are allowed. The treasurer always can;
// a bureau member only with one of the allow-listed functions; players never.
func CanExport(role Role, fonctionBureau string) bool {
	if role == RoleTresorier {
		return true
	}

	if role == RoleBureau && fonctionBureau != "" {
		for _, fn := range ExportAllowedFunctions {
			if fn == fonctionBureau {
				return true
			}
		}
	}

	return false
}
