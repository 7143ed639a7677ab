package access

import "agrovision/entities"

var (
	allCRUD  = entities.CRUDFlags{View: true, Create: true, Edit: true, Delete: true}
	noDelete = entities.CRUDFlags{View: true, Create: true, Edit: true}
	viewOnly = entities.CRUDFlags{View: true}
)

// DefaultPermissions is the matrix a new account of the role starts with.
func DefaultPermissions(role entities.Role) entities.Permissions {
	switch role {
	case entities.RoleAdmin:
		return entities.Permissions{
			Areas: allCRUD, Clients: allCRUD, Crops: allCRUD, Users: allCRUD,
			Reports: entities.ReportFlags{View: true, Export: true},
		}
	case entities.RoleManager:
		return entities.Permissions{
			Areas: noDelete, Clients: noDelete, Crops: noDelete, Users: viewOnly,
			Reports: entities.ReportFlags{View: true, Export: true},
		}
	case entities.RoleOperator:
		return entities.Permissions{
			Areas: noDelete, Clients: viewOnly, Crops: noDelete,
			Reports: entities.ReportFlags{View: true},
		}
	default:
		return entities.Permissions{
			Areas: viewOnly, Clients: viewOnly, Crops: viewOnly,
			Reports: entities.ReportFlags{View: true},
		}
	}
}

// Within reports whether every flag set in p is also set in limit.
// Used so that non-admins can not grant more than they hold.
func Within(p, limit entities.Permissions) bool {
	crud := func(a, b entities.CRUDFlags) bool {
		return (!a.View || b.View) && (!a.Create || b.Create) && (!a.Edit || b.Edit) && (!a.Delete || b.Delete)
	}
	return crud(p.Areas, limit.Areas) &&
		crud(p.Clients, limit.Clients) &&
		crud(p.Crops, limit.Crops) &&
		crud(p.Users, limit.Users) &&
		(!p.Reports.View || limit.Reports.View) &&
		(!p.Reports.Export || limit.Reports.Export)
}
