package auth

import "context"

const (
	RoleManager  = "Manager"
	RoleHR       = "HR"
	RoleCEO      = "CEO"
	RoleEmployee = "Employee"
)

const (
	PermPayrollRegime  = "payroll.regime.read"
	PermPayrollPreview = "payroll.preview"
	PermPayrollSelf    = "payroll.read.self"
	PermPayrollReadAll = "payroll.read.all"
	PermPayrollRun     = "payroll.run"
	PermPayrollExport  = "payroll.export"
	PermSprintsRead    = "sprints.read"
)

var Roles = []string{RoleManager, RoleHR, RoleCEO, RoleEmployee}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermPayrollRegime,
		PermPayrollSelf,
		PermSprintsRead,
	},
	RoleManager: {
		PermPayrollRegime,
		PermPayrollPreview,
		PermPayrollSelf,
		PermSprintsRead,
	},
	RoleHR: {
		PermPayrollRegime,
		PermPayrollPreview,
		PermPayrollSelf,
		PermPayrollReadAll,
		PermPayrollRun,
		PermPayrollExport,
		PermSprintsRead,
	},
	RoleCEO: {
		PermPayrollRegime,
		PermPayrollPreview,
		PermPayrollSelf,
		PermPayrollReadAll,
		PermPayrollExport,
		PermSprintsRead,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// RoleTable answers permission checks from RolePermissions.
type RoleTable struct{}

func (RoleTable) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
