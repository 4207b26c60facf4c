package utils

import (
	"fmt"

	"tcepreview/config"

	"github.com/go-resty/resty/v2"
)

// OAuthUserInfo is the staff profile returned by the identity provider.
type OAuthUserInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	SchoolID  string `json:"schoolId,omitempty"`
	BranchID  string `json:"branchId,omitempty"`
}

// OAuthTokenResponse is the triple handed back by the token endpoint.
type OAuthTokenResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType"`
	ExpiresIn    int64         `json:"expiresIn"`
	UserInfo     OAuthUserInfo `json:"userInfo"`
}

type oauthErrorBody struct {
	Message string `json:"message"`
}

// ExchangeCode trades an authorization code for the token triple.
func ExchangeCode(code, redirectURI string) (*OAuthTokenResponse, error) {
	var out OAuthTokenResponse
	var apiErr oauthErrorBody

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"code":        code,
			"clientId":    config.AppConfig.OAuthClientID,
			"redirectUri": redirectURI,
			"grantType":   "authorization_code",
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(config.AppConfig.TceAPIBaseURL + "/v1/api/user/oauth/token")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return nil, fmt.Errorf("token exchange failed: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("token exchange failed: %s", resp.Status())
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token")
	}
	return &out, nil
}

// ValidateToken checks an access token against the identity endpoint.
func ValidateToken(accessToken string) error {
	resp, err := resty.New().R().
		SetAuthToken(accessToken).
		Get(config.AppConfig.TceAPIBaseURL + "/v1/api/user/oauth/validate")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("token validation failed: %s", resp.Status())
	}
	return nil
}

// RefreshTokens rotates the token pair using the stored refresh token.
func RefreshTokens(refreshToken string) (*OAuthTokenResponse, error) {
	var out OAuthTokenResponse
	var apiErr oauthErrorBody

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"refreshToken": refreshToken,
			"clientId":     config.AppConfig.OAuthClientID,
			"grantType":    "refresh_token",
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(config.AppConfig.TceAPIBaseURL + "/v1/api/user/oauth/token")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return nil, fmt.Errorf("token refresh failed: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("token refresh failed: %s", resp.Status())
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token refresh returned no access token")
	}
	return &out, nil
}
