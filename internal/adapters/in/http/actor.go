package http

import (
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity is asserted by the gateway in front of this service.
const (
	HeaderActorRole = "X-Actor-Role"
	HeaderActorID   = "X-Actor-Id"
	HeaderActorName = "X-Actor-Name"
)

// actorFrom reads the acting identity. The system role is reserved for
// background jobs and cannot be claimed over HTTP.
func actorFrom(ctx echo.Context) (kernel.Actor, error) {
	h := ctx.Request().Header
	role := kernel.Role(h.Get(HeaderActorRole))
	if role == kernel.RoleSystem {
		return kernel.Actor{}, errInvalidActor
	}
	return kernel.NewActor(role, h.Get(HeaderActorID), h.Get(HeaderActorName))
}
