package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminPasswordHeader carries the shared admin secret.
const AdminPasswordHeader = "X-Admin-Password"

// AdminAuthorizer checks an admin credential.
type AdminAuthorizer interface {
	Authorize(credential string) error
}

// AdminRequired is a Fiber middleware guarding the back-office routes.
// The credential comes from the X-Admin-Password header or, failing that,
// a "password" field in the JSON body.
func AdminRequired(auth AdminAuthorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := c.Get(AdminPasswordHeader)
		if credential == "" && len(c.Body()) > 0 {
			var body struct {
				Password string `json:"password"`
			}
			if err := c.BodyParser(&body); err == nil {
				credential = body.Password
			}
		}

		if err := auth.Authorize(credential); err != nil {
			log.Printf("Admin authorization failed for %s %s from %s", c.Method(), c.Path(), c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid admin password",
			})
		}
		return c.Next()
	}
}
