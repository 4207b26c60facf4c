package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tcepreview/config"

	"github.com/go-resty/resty/v2"
)

// ClientID describes the player client handed out by the TCE service.
type ClientID struct {
	APIVersion     string `json:"apiVersion"`
	SessionTimeout string `json:"sessionTimeout"`
	ClientTimeout  string `json:"clientTimeout"`
	DefaultSchool  string `json:"defaultSchool"`
	Tstamp         int64  `json:"tstamp"`
}

// TokenData is the player access token returned by the TCE token endpoint.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	Mode         string `json:"mode"`
	Tstamp       int64  `json:"tstamp"`
}

// TCEAsset is the metadata the service returns per asset id. Not persisted
// locally beyond the title mirrored into chapter_assets.
type TCEAsset struct {
	AssetID           string `json:"assetId"`
	TpID              string `json:"tpId"`
	LcmsSubjectID     string `json:"lcmsSubjectId"`
	LcmsGradeID       string `json:"lcmsGradeId"`
	Title             string `json:"title"`
	MimeType          string `json:"mimeType"`
	AssetType         string `json:"assetType"`
	ThumbFileName     string `json:"thumbFileName"`
	FileName          string `json:"fileName"`
	AnsKeyID          string `json:"ansKeyId"`
	Copyright         string `json:"copyright"`
	SubType           string `json:"subType"`
	Description       string `json:"description"`
	Keywords          string `json:"keywords"`
	EncryptedFilePath string `json:"encryptedFilePath"`
}

type clientIDData struct {
	Cookies  map[string]cookieConfig `json:"cookies"`
	ClientID ClientID                `json:"clientId"`
}

type cookieConfig struct {
	MaxAge   int    `json:"max_age"`
	SameSite string `json:"samesite"`
	Domain   string `json:"domain"`
	HTTPOnly bool   `json:"httponly"`
	Secure   bool   `json:"secure"`
	Value    string `json:"value"`
}

type tceEnvelope struct {
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Success   bool            `json:"success"`
	ErrorCode *string         `json:"errorCode"`
	Path      *string         `json:"path"`
}

type assetBatchData struct {
	PlaylistJSON string `json:"playlistJson"`
}

type playlist struct {
	Asset []TCEAsset `json:"asset"`
}

// TceClient talks to the TCE media service. The service pins its session
// to cookies returned by the clientid call, so the client replays them on
// every later request instead of handing them to a browser.
type TceClient struct {
	rest    *resty.Client
	bearer  string
	cookies []*http.Cookie
}

// NewTceClient builds a client against the configured TCE base URL. The
// bearer is this server's own session token, forwarded upstream.
func NewTceClient(bearer string) *TceClient {
	return &TceClient{
		rest:   resty.New().SetBaseURL(config.AppConfig.TceAPIBaseURL),
		bearer: bearer,
	}
}

func (t *TceClient) unwrap(resp *resty.Response, what string) (*tceEnvelope, error) {
	if resp.IsError() {
		return nil, fmt.Errorf("%s request failed: %s", what, resp.Status())
	}
	var env tceEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", what, err)
	}
	if !env.Success && env.Message != "" {
		return nil, fmt.Errorf("%s request rejected: %s", what, env.Message)
	}
	return &env, nil
}

// FetchClientID retrieves the player client descriptor and captures the
// session cookies the service expects back on later calls.
func (t *TceClient) FetchClientID() (*ClientID, error) {
	resp, err := t.rest.R().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(t.bearer).
		Get("/v1/api/user/tceplayer/clientid")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client id: %w", err)
	}

	env, err := t.unwrap(resp, "client id")
	if err != nil {
		return nil, err
	}

	var data clientIDData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse client id payload: %w", err)
	}

	t.cookies = t.cookies[:0]
	for name, cfg := range data.Cookies {
		t.cookies = append(t.cookies, &http.Cookie{
			Name:   name,
			Value:  cfg.Value,
			Path:   "/",
			MaxAge: cfg.MaxAge,
			Secure: cfg.Secure,
		})
	}
	t.cookies = append(t.cookies, resp.Cookies()...)

	return &data.ClientID, nil
}

// FetchToken obtains a player access token for the configured school user.
func (t *TceClient) FetchToken() (*TokenData, error) {
	resp, err := t.rest.R().
		SetCookies(t.cookies).
		SetFormData(map[string]string{
			"school_name": config.AppConfig.TceSchoolName,
			"role":        config.AppConfig.TceUserRole,
			"grant_type":  "password",
			"user_name":   config.AppConfig.TceUserName,
		}).
		Post("/v1/api/user/tceplayer/token")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token: %w", err)
	}

	env, err := t.unwrap(resp, "token")
	if err != nil {
		return nil, err
	}

	var token TokenData
	if err := json.Unmarshal(env.Data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token payload: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}
	return &token, nil
}

// FetchAssets pulls metadata for a batch of asset ids. The service wraps
// the asset list in a playlist document serialized as a JSON string.
func (t *TceClient) FetchAssets(ids []string, accessToken string) ([]TCEAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := t.rest.R().
		SetCookies(t.cookies).
		SetFormData(map[string]string{
			"ids":         strings.Join(ids, ","),
			"accessToken": accessToken,
		}).
		Post("/v1/api/user/tceplayer/assets")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	env, err := t.unwrap(resp, "assets")
	if err != nil {
		return nil, err
	}

	var data assetBatchData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse asset payload: %w", err)
	}

	var list playlist
	if err := json.Unmarshal([]byte(data.PlaylistJSON), &list); err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}
	return list.Asset, nil
}

// FetchAsset is the single-asset convenience over FetchAssets.
func (t *TceClient) FetchAsset(id, accessToken string) (*TCEAsset, error) {
	assets, err := t.FetchAssets([]string{id}, accessToken)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no asset data returned for %s", id)
	}
	return &assets[0], nil
}

// ExpiryTime computes the player token expiry: the token timestamp when the
// service sets one, otherwise the client timeout. This mirrors the player
// contract as shipped, quirks included.
func ExpiryTime(token *TokenData, client *ClientID) (int64, error) {
	if token == nil || client == nil {
		return 0, fmt.Errorf("TCE didn't authorize this client")
	}
	if token.Tstamp != 0 {
		return token.Tstamp, nil
	}
	timeout, _ := strconv.ParseInt(client.ClientTimeout, 10, 64)
	return timeout, nil
}

// ThumbnailURL builds the file-service path for an asset's thumbnail, or
// "" when the asset has no renderable thumb.
func ThumbnailURL(asset *TCEAsset) string {
	if asset == nil || asset.EncryptedFilePath == "" || asset.ThumbFileName == "" {
		return ""
	}
	return fmt.Sprintf("/tce-repo-api/1/web/1/content/fileservice/%s/%s/%s",
		asset.EncryptedFilePath, asset.AssetID, asset.ThumbFileName)
}
