package serviceImp

import (
	"agrovision/entities"
	"agrovision/pkg/access"
)

// canAssignRole: admins hand out any role, managers only operator and viewer.
func canAssignRole(caller access.Principal, role entities.Role) bool {
	switch caller.Role {
	case entities.RoleAdmin:
		return true
	case entities.RoleManager:
		return role == entities.RoleOperator || role == entities.RoleViewer
	}
	return false
}

// canSee decides whether caller may read target.
func canSee(caller access.Principal, target *entities.Account) bool {
	if caller.IsAdmin() || caller.AccountID == target.ID || caller.IsGlobal() {
		return true
	}
	return !target.IsGlobal() && target.SharesClient(caller.ClientIDs)
}

// canModify decides whether caller may change or remove target. Admins can
// touch non-admins and themselves; nobody else touches an admin.
func canModify(caller access.Principal, target *entities.Account, action entities.Action) bool {
	if caller.IsAdmin() {
		return target.Role != entities.RoleAdmin || caller.AccountID == target.ID
	}
	if target.Role == entities.RoleAdmin {
		return false
	}
	if caller.AccountID == target.ID && action == entities.ActionEdit {
		return true
	}
	return caller.Can(entities.ResourceUsers, action) && canSee(caller, target)
}
