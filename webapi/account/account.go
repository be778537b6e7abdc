package account

import (
	"strconv"

	accountsvc "github.com/amirasaad/txnimport/pkg/service/account"
	"github.com/amirasaad/txnimport/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// CreateAccountRequest is the body of POST /accounts.
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	IBAN     string `json:"iban" validate:"required,max=34"`
	BankType string `json:"bank_type" validate:"omitempty,max=20"`
}

// Routes registers HTTP routes for bank account management.
//
// Routes:
//   - GET    /accounts          : List the user's accounts.
//   - POST   /accounts          : Create an account.
//   - DELETE /accounts/:id      : Delete an account and its transactions.
//   - POST   /accounts/:id/main : Make the account the user's main account.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, guard []fiber.Handler) {
	app.Get("/accounts", common.Handlers(guard, ListAccounts(accountSvc))...)
	app.Post("/accounts", common.Handlers(guard, CreateAccount(accountSvc))...)
	app.Delete("/accounts/:id", common.Handlers(guard, DeleteAccount(accountSvc))...)
	app.Post("/accounts/:id/main", common.Handlers(guard, SetMainAccount(accountSvc))...)
}

// ListAccounts returns the user's accounts and whether a main account must be chosen.
// @Summary List bank accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response
// @Failure 412 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts [get]
// @Security BearerAuth
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		overview, err := accountSvc.ListAccounts(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", overview)
	}
}

// CreateAccount creates a bank account.
// @Summary Create bank account
// @Description bank_type must be empty or a registered import format
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 412 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts [post]
// @Security BearerAuth
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), userID, input.Name, input.IBAN, input.BankType)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		log.Infof("Account created: %d", a.ID)
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", a)
	}
}

// DeleteAccount deletes one of the user's accounts.
// @Summary Delete bank account
// @Tags accounts
// @Param id path int true "Account ID"
// @Success 204
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/{id} [delete]
// @Security BearerAuth
func DeleteAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		id, ok := accountID(c)
		if !ok {
			return nil // error response already written
		}
		if err := accountSvc.DeleteAccount(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetMainAccount makes the account the user's only main account.
// @Summary Set main account
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /accounts/{id}/main [post]
// @Security BearerAuth
func SetMainAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		id, ok := accountID(c)
		if !ok {
			return nil // error response already written
		}
		if err := accountSvc.SetMainAccount(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set main account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Main account set", fiber.Map{"id": id})
	}
}

// accountID parses :id, writing a 400 response when it is not a positive integer.
func accountID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		_ = common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", "account id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
