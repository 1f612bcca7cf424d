package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
		"log:write",
		"report:view-own",
	},
	"teacher": {
		"exam:create",
		"exam:view",
		"content:write",
		"log:write",
		"report:view",
		"report:view-own",
	},
	"admin": {
		"*", // everything
	},
}
