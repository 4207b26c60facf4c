package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tcepreview/config"
	"tcepreview/database"
	"tcepreview/models/users"
	"tcepreview/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie names the cookie carrying the signed session id.
const SessionCookie = "sid"

// GenerateSessionJWT signs a session id into the cookie value.
func GenerateSessionJWT(sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// ParseSessionJWT recovers the session id from a cookie value.
func ParseSessionJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session cookie")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sid"] == nil {
		return "", fmt.Errorf("invalid session payload")
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("invalid session payload")
	}
	return sid, nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.ClearCookie(SessionCookie)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":   false,
		"message":  message,
		"loginUrl": config.AppConfig.LoginURL(c.BaseURL()),
	})
}

// SessionMiddleware authenticates a request against the stored session.
// The stored access token is validated upstream; a failed validation gets
// one refresh attempt before the session is revoked and the caller is sent
// back to the external login page.
func SessionMiddleware(c *fiber.Ctx) error {
	cookie := c.Cookies(SessionCookie)
	if cookie == "" {
		return unauthorized(c, "Not signed in")
	}

	sid, err := ParseSessionJWT(cookie)
	if err != nil {
		return unauthorized(c, "Invalid session")
	}

	var session users.Session
	if err := database.Database.Users.
		Where("sid = ? AND revoked = false", sid).
		First(&session).Error; err != nil {
		return unauthorized(c, "Session expired")
	}

	if err := utils.ValidateToken(session.Token); err != nil {
		refreshed, refreshErr := utils.RefreshTokens(session.RefreshToken)
		if refreshErr != nil {
			revokeSession(&session)
			return unauthorized(c, "Session expired")
		}

		session.Token = refreshed.AccessToken
		session.RefreshToken = refreshed.RefreshToken
		session.ExpiresIn = refreshed.ExpiresIn
		session.IssuedAt = time.Now()
		if err := database.Database.Users.Save(&session).Error; err != nil {
			log.Printf("Error persisting refreshed session %s: %v", sid, err)
		}

		if err := utils.ValidateToken(session.Token); err != nil {
			revokeSession(&session)
			return unauthorized(c, "Session expired")
		}
	}

	c.Locals("session", &session)
	c.Locals("accessToken", session.Token)
	if userName := profileUserName(&session); userName != "" {
		c.Locals("userName", userName)
	}

	return c.Next()
}

func revokeSession(session *users.Session) {
	session.Revoked = true
	if err := database.Database.Users.Save(session).Error; err != nil {
		log.Printf("Error revoking session %s: %v", session.SID, err)
	}
}

func profileUserName(session *users.Session) string {
	if len(session.Profile) == 0 {
		return ""
	}
	var profile utils.OAuthUserInfo
	if err := json.Unmarshal(session.Profile, &profile); err != nil {
		return ""
	}
	return profile.UserName
}
