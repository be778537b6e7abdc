package export

import (
	"fmt"

	exportsvc "github.com/amirasaad/txnimport/pkg/service/export"
	"github.com/amirasaad/txnimport/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers GET /exports/sossoldi.
func Routes(app *fiber.App, exportSvc *exportsvc.Service, guard []fiber.Handler) {
	app.Get("/exports/sossoldi", common.Handlers(guard, Sossoldi(exportSvc))...)
}

// Sossoldi serves the user's data as a CSV attachment.
// @Summary Sossoldi export
// @Tags exports
// @Produce text/csv
// @Success 200 {file} file
// @Failure 412 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /exports/sossoldi [get]
// @Security BearerAuth
func Sossoldi(exportSvc *exportsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		body, err := exportSvc.SossoldiBytes(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Export failed", err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportsvc.Filename))
		return c.Status(fiber.StatusOK).Send(body)
	}
}
