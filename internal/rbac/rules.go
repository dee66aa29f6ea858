package rbac

// Default policy. Regular users own their analyses; admins see everything
// and may manage exam profiles.
var RolePermissions = map[string][]string{
	"user": {
		"exam:list",
		"analysis:create",
		"analysis:view-own",
		"analysis:delete-own",
	},
	"admin": {
		"*", // everything
	},
}
