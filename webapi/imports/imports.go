package imports

import (
	"strconv"

	"github.com/amirasaad/txnimport/pkg/importer"
	importsvc "github.com/amirasaad/txnimport/pkg/service/imports"
	"github.com/amirasaad/txnimport/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// FormatResponse describes one registered bank format.
type FormatResponse struct {
	Format string `json:"format"`
	Bank   string `json:"bank"`
}

// Routes registers:
//   - GET  /formats : registered bank formats
//   - POST /imports : multipart upload with "file" and optional "account_id" and "format"
func Routes(
	app *fiber.App,
	importSvc *importsvc.Service,
	registry *importer.Registry,
	guard []fiber.Handler,
) {
	app.Get("/formats", common.Handlers(guard, ListFormats(registry))...)
	app.Post("/imports", common.Handlers(guard, Import(importSvc))...)
}

// ListFormats lists the registered bank formats.
// @Summary List bank formats
// @Tags imports
// @Produce json
// @Success 200 {object} common.Response{data=[]FormatResponse}
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /formats [get]
// @Security BearerAuth
func ListFormats(registry *importer.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		formats := registry.Formats()
		out := make([]FormatResponse, 0, len(formats))
		for _, f := range formats {
			s, err := registry.Get(f)
			if err != nil {
				continue
			}
			out = append(out, FormatResponse{Format: s.Format(), Bank: s.BankName()})
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Formats", out)
	}
}

// Import runs the uploaded statement through the pipeline of the selected account's format.
// @Summary Import statement
// @Description Imports a bank CSV into the selected account, or the main account when none is given
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement CSV"
// @Param account_id formData int false "Destination account ID"
// @Param format formData string false "Bank format, defaults to the account's bank type"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 412 {object} common.ProblemDetails
// @Failure 413 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /imports [post]
// @Security BearerAuth
func Import(importSvc *importsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}

		var accountID uint
		if raw := c.FormValue("account_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || id == 0 {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", "account_id must be a positive integer")
			}
			accountID = uint(id)
		}

		header, err := c.FormFile("file")
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Missing file", "multipart field \"file\" is required")
		}
		file, err := header.Open()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to read upload", err)
		}
		defer file.Close() //nolint:errcheck

		log.Infof("Import upload: user %s, account %d, file %s (%d bytes)", userID, accountID, header.Filename, header.Size)
		res, err := importSvc.Import(c.UserContext(), importsvc.Request{
			UserID:    userID,
			AccountID: accountID,
			Format:    c.FormValue("format"),
			File:      file,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Import failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Import completed", res)
	}
}
