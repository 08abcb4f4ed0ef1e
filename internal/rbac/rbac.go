package rbac

import (
	"net/http"
	"strings"

	"github.com/classleaf/quizport/internal/auth"
)

// Default policy. Respondent and verification flows are unauthenticated and
// never pass through here.
var RolePermissions = map[string][]string{
	auth.RoleIssuer: {
		"quiz:*",
		"submission:list",
		"submission:grade",
		"submission:export",
		"issuer:self",
	},
	auth.RoleAdmin: {
		"*",
	},
}

type Checker struct {
	RolePermissions map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role, perm string) bool {
	perms, ok := c.RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(perm, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

var defaultChecker = NewChecker(nil)

// Require enforces a single permission on the authenticated actor.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil || !defaultChecker.Has(claims.Role, perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
