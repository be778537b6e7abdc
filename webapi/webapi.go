// Package webapi provides the HTTP surface of the statement importer.
// It is organized into sub-packages for different concerns:
// - account: Bank account endpoints
// - user: Profile endpoints
// - imports: Format listing and statement upload
// - export: Sossoldi export
package webapi

import (
	"strings"

	_ "github.com/amirasaad/txnimport/cmd/server/swagger"
	"github.com/amirasaad/txnimport/pkg/app"
	"github.com/amirasaad/txnimport/pkg/middleware"
	accountweb "github.com/amirasaad/txnimport/webapi/account"
	"github.com/amirasaad/txnimport/webapi/common"
	exportweb "github.com/amirasaad/txnimport/webapi/export"
	importsweb "github.com/amirasaad/txnimport/webapi/imports"
	userweb "github.com/amirasaad/txnimport/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// bodySlack leaves room for multipart framing around the largest accepted upload.
const bodySlack = 1 << 20

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	}
	if a.Config.Import != nil && a.Config.Import.MaxUploadBytes > 0 {
		cfg.BodyLimit = int(a.Config.Import.MaxUploadBytes) + bodySlack
	}
	fiberApp := fiber.New(cfg)
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	limiterCfg := limiter.Config{
		Max:          100,
		KeyGenerator: keyByClient,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(
				c,
				fiber.StatusTooManyRequests,
				"Too Many Requests",
				"rate limit exceeded",
			)
		},
	}
	if rl := a.Config.RateLimit; rl != nil {
		limiterCfg.Max = rl.MaxRequests
		limiterCfg.Expiration = rl.Window
	}
	fiberApp.Use(limiter.New(limiterCfg))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("txnimport is running")
	})

	guard := []fiber.Handler{
		middleware.Protected(a.Config.Auth.Jwt),
		common.EnsureUser(a.AuthService, a.UserService),
	}
	userweb.Routes(fiberApp, a.UserService, guard)
	accountweb.Routes(fiberApp, a.AccountService, guard)
	importsweb.Routes(fiberApp, a.ImportService, a.Deps.Dispatcher.Registry(), guard)
	exportweb.Routes(fiberApp, a.ExportService, guard)

	return fiberApp
}

// keyByClient uses X-Forwarded-For, then X-Real-IP, then the direct IP.
func keyByClient(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		// Take the first IP in the chain
		if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
			return strings.TrimSpace(forwardedFor[:commaIndex])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
