package authController

import (
	"encoding/json"
	"log"
	"time"

	"tcepreview/config"
	"tcepreview/database"
	"tcepreview/middleware"
	"tcepreview/models/users"
	"tcepreview/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OAuthCallback lands the user back from the external login page. The
// authorization code is exchanged for the token triple, which is stored in
// a fresh session before redirecting home. Any failure surfaces the login
// URL as the manual way back.
func OAuthCallback(c *fiber.Ctx) error {
	origin := c.BaseURL()
	loginURL := config.AppConfig.LoginURL(origin)

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":   false,
			"message":  "Missing authorization code",
			"loginUrl": loginURL,
		})
	}

	tokens, err := utils.ExchangeCode(code, config.AppConfig.RedirectURI(origin))
	if err != nil {
		log.Printf("Error exchanging authorization code: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":   false,
			"message":  "Token exchange failed",
			"loginUrl": loginURL,
		})
	}

	profile, err := json.Marshal(tokens.UserInfo)
	if err != nil {
		profile = []byte("{}")
	}

	session := users.Session{
		SID:          uuid.NewString(),
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Profile:      datatypes.JSON(profile),
		ExpiresIn:    tokens.ExpiresIn,
		IssuedAt:     time.Now(),
	}
	if err := database.Database.Users.Create(&session).Error; err != nil {
		log.Printf("Error creating session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	cookieValue, err := middleware.GenerateSessionJWT(session.SID)
	if err != nil {
		log.Printf("Error signing session cookie: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    cookieValue,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect("/", fiber.StatusFound)
}

// Logout revokes the current session and clears the cookie.
func Logout(c *fiber.Ctx) error {
	if cookie := c.Cookies(middleware.SessionCookie); cookie != "" {
		if sid, err := middleware.ParseSessionJWT(cookie); err == nil {
			if err := database.Database.Users.
				Model(&users.Session{}).
				Where("sid = ?", sid).
				Update("revoked", true).Error; err != nil {
				log.Printf("Error revoking session %s: %v", sid, err)
			}
		}
	}

	c.ClearCookie(middleware.SessionCookie)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out", nil)
}

// Me returns the signed-in user's profile for the navbar.
func Me(c *fiber.Ctx) error {
	session, ok := c.Locals("session").(*users.Session)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not signed in", nil)
	}

	var profile utils.OAuthUserInfo
	if len(session.Profile) > 0 {
		if err := json.Unmarshal(session.Profile, &profile); err != nil {
			log.Printf("Error decoding profile for session %s: %v", session.SID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile", fiber.Map{
		"profile":   profile,
		"expiresIn": session.ExpiresIn,
		"issuedAt":  session.IssuedAt,
	})
}
