package user

import (
	usersvc "github.com/amirasaad/txnimport/pkg/service/user"
	"github.com/amirasaad/txnimport/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// ProfileRequest carries the names used to detect transfers between own accounts.
type ProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
}

// ProfileResponse describes the current user.
type ProfileResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Complete  bool   `json:"complete"`
}

// Routes registers:
//   - GET /user/profile : the current user
//   - PUT /user/profile : complete the profile
func Routes(app *fiber.App, userSvc *usersvc.Service, guard []fiber.Handler) {
	app.Get("/user/profile", common.Handlers(guard, GetProfile(userSvc))...)
	app.Put("/user/profile", common.Handlers(guard, UpdateProfile(userSvc))...)
}

// GetProfile returns the current user.
// @Summary Get profile
// @Description Returns the authenticated user and whether the profile is complete
// @Tags user
// @Produce json
// @Success 200 {object} common.Response{data=ProfileResponse}
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /user/profile [get]
// @Security BearerAuth
func GetProfile(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		u, err := userSvc.GetUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load profile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile", ProfileResponse{
			ID:        u.ID.String(),
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Complete:  u.IsProfileComplete(),
		})
	}
}

// UpdateProfile stores first and last name.
// @Summary Complete profile
// @Description Stores first and last name, required before importing or exporting
// @Tags user
// @Accept json
// @Produce json
// @Param request body ProfileRequest true "Profile names"
// @Success 200 {object} common.Response{data=ProfileResponse}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /user/profile [put]
// @Security BearerAuth
func UpdateProfile(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.UserID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "missing user context")
		}
		input, err := common.BindAndValidate[ProfileRequest](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.CompleteProfile(c.UserContext(), userID, input.FirstName, input.LastName)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update profile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile updated", ProfileResponse{
			ID:        u.ID.String(),
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Complete:  u.IsProfileComplete(),
		})
	}
}
