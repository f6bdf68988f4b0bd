package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleAdmin may start batch rescoring.
const RoleAdmin = "admin"

// Identity is the operator behind a request, as established by AuthRequired.
type Identity interface {
	UserID() uuid.UUID
	Roles() []string
	HasRole(role string) bool
	IsAuthenticated() bool
}

type operator struct {
	id    uuid.UUID
	roles []string
}

func (o operator) UserID() uuid.UUID        { return o.id }
func (o operator) Roles() []string          { return o.roles }
func (o operator) HasRole(role string) bool { return slices.Contains(o.roles, role) }
func (o operator) IsAuthenticated() bool    { return o.id != uuid.Nil }

// GetIdentity reads the operator from the gin context. Requests that did not
// pass AuthRequired get an anonymous identity with uuid.Nil and no roles.
func GetIdentity(c *gin.Context) Identity {
	id, ok := c.Value(ContextUserIDKey).(uuid.UUID)
	if !ok {
		return operator{}
	}
	roles, _ := c.Value(ContextRolesKey).([]string)
	return operator{id: id, roles: roles}
}
