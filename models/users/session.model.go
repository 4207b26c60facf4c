package users

import (
	"time"

	"gorm.io/datatypes"
)

// Session is the server-side home for the token/refreshToken/profile triple
// the browser used to keep in session storage. The sid travels in a signed
// cookie; everything else stays here.
type Session struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SID          string         `json:"sid" gorm:"column:sid;uniqueIndex"`
	Token        string         `json:"-" gorm:"column:token"`
	RefreshToken string         `json:"-" gorm:"column:refresh_token"`
	Profile      datatypes.JSON `json:"profile" gorm:"column:profile"`
	ExpiresIn    int64          `json:"expiresIn" gorm:"column:expires_in"` // seconds, as reported by the token endpoint
	IssuedAt     time.Time      `json:"issuedAt" gorm:"column:issued_at"`
	Revoked      bool           `json:"revoked" gorm:"column:revoked;default:false"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (Session) TableName() string { return "sessions" }

// RefreshDue reports whether the session has crossed 80% of its token
// lifetime and should be rotated by the background sweep.
func (s *Session) RefreshDue(now time.Time) bool {
	if s.ExpiresIn <= 0 {
		return false
	}
	lifetime := time.Duration(s.ExpiresIn) * time.Second
	return now.Sub(s.IssuedAt) >= lifetime*8/10
}
