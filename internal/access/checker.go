package access

// Permissions gated per action.
const (
	PermViewQuestions = "questions:view"
	PermSaveQuestions = "questions:save"
	PermSubmitResult  = "result:submit"
)

// Default policy. Saving the test definition is editor-only; everything
// else is open to any valid role.
var RolePermissions = map[Role][]string{
	RoleStudent: {
		PermViewQuestions,
		PermSubmitResult,
	},
	RoleEditor: {
		PermViewQuestions,
		PermSaveQuestions,
		PermSubmitResult,
	},
}

type Checker struct {
	RolePermissions map[Role][]string
}

func NewChecker(rp map[Role][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role Role, perm string) bool {
	for _, p := range c.RolePermissions[role] {
		if p == "*" || p == perm {
			return true
		}
	}
	return false
}

// Require returns ErrUnauthorized when the role lacks the permission.
func (c *Checker) Require(role Role, perm string) error {
	if !c.Has(role, perm) {
		return ErrUnauthorized
	}
	return nil
}
