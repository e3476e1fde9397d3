package auth

import "strings"

// Roles carried in the JWT "role" claim.
const (
	// RoleAdmin may call every protected route.
	RoleAdmin = "admin"
	// RoleEditor manages posts and job listings but cannot read
	// applications or contact submissions, which hold personal data.
	RoleEditor = "editor"
)

// Permission lists the methods and path patterns a role may use.
// A pattern ending in "/*" matches the prefix itself and everything below it.
type Permission struct {
	AllowedMethods []string
	AllowedPaths   []string
}

var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedPaths:   []string{"/*"},
	},
	RoleEditor: {
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedPaths: []string{
			"/wp-json/wp/v2/posts/*",
			"/wp-json/jobs/v1/listings/*",
		},
	},
}

// checkRolePermission reports whether role may call method on path.
// Unknown and empty roles are always denied.
func checkRolePermission(role, method, path string) bool {
	perm, ok := RolePermissions[role]
	if !ok {
		return false
	}
	methodAllowed := false
	for _, m := range perm.AllowedMethods {
		if m == method {
			methodAllowed = true
			break
		}
	}
	return methodAllowed && matchesPathPattern(path, perm.AllowedPaths)
}

// matchesPathPattern("/wp-json/wp/v2/posts", []string{"/wp-json/wp/v2/posts/*"})    // true
// matchesPathPattern("/wp-json/wp/v2/posts/7", []string{"/wp-json/wp/v2/posts/*"})  // true
// matchesPathPattern("/wp-json/wp/v2/postsX", []string{"/wp-json/wp/v2/posts/*"})   // false
func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
