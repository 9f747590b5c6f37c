package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo/core/announcement"
	"github.com/trezcool/masomo/core/user"
)

func registerAnnouncementAPI(g *echo.Group, validate *validator.Validate) {
	api := &resourceAPI[announcement.Announcement, *announcement.Announcement, announcement.DTO]{
		name:      "announcement",
		location:  "/api/announcements",
		ordering:  announcement.Ordering,
		validate:  validate,
		toDTO:     announcement.ToDTO,
		newEntity: announcement.New,
		apply:     announcement.Apply,
		dtoID:     func(dto announcement.DTO) int64 { return dto.ID },
	}
	api.register(g.Group("/announcements"), roleMiddleware(user.RoleSuperAdmin, user.RoleAdmin))
}
