package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"tcepreview/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		OAuthClientID: "TCE-TEST-APP",
		TceSchoolName: "Azvasa Demo School",
		TceUserName:   "sunil",
		TceUserRole:   "Teacher",
	}
	os.Exit(m.Run())
}

// tceServer fakes the TCE media endpoints: clientid pins a session cookie
// that the token and asset calls must replay.
func tceServer(t *testing.T) *httptest.Server {
	t.Helper()

	envelope := func(w http.ResponseWriter, data interface{}) {
		payload, err := json.Marshal(data)
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":    json.RawMessage(payload),
			"message": "",
			"success": true,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/api/user/tceplayer/clientid", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		http.SetCookie(w, &http.Cookie{Name: "TCESESSION", Value: "sess-1", Path: "/"})
		envelope(w, map[string]interface{}{
			"cookies": map[string]interface{}{
				"XSRF-TOKEN": map[string]interface{}{"value": "xsrf-1", "max_age": 3600},
			},
			"clientId": map[string]interface{}{
				"apiVersion":     "1",
				"sessionTimeout": "1800",
				"clientTimeout":  "900",
				"defaultSchool":  "Azvasa Demo School",
				"tstamp":         int64(0),
			},
		})
	})
	mux.HandleFunc("/v1/api/user/tceplayer/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Azvasa Demo School", r.PostFormValue("school_name"))
		assert.Equal(t, "Teacher", r.PostFormValue("role"))
		assert.Equal(t, "password", r.PostFormValue("grant_type"))
		assert.Equal(t, "sunil", r.PostFormValue("user_name"))

		session, err := r.Cookie("TCESESSION")
		require.NoError(t, err)
		assert.Equal(t, "sess-1", session.Value)
		xsrf, err := r.Cookie("XSRF-TOKEN")
		require.NoError(t, err)
		assert.Equal(t, "xsrf-1", xsrf.Value)

		envelope(w, map[string]interface{}{
			"access_token": "player-token",
			"token_type":   "bearer",
			"expires_in":   int64(900),
			"tstamp":       int64(1700000900000),
		})
	})
	mux.HandleFunc("/v1/api/user/tceplayer/assets", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "A100,A200", r.PostFormValue("ids"))
		assert.Equal(t, "player-token", r.PostFormValue("accessToken"))

		playlistJSON, err := json.Marshal(map[string]interface{}{
			"asset": []map[string]string{
				{"assetId": "A100", "title": "Light", "thumbFileName": "light.png", "encryptedFilePath": "enc-1"},
				{"assetId": "A200", "title": "Sound"},
			},
		})
		require.NoError(t, err)
		envelope(w, map[string]interface{}{"playlistJson": string(playlistJSON)})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTceClient_FullSequence(t *testing.T) {
	srv := tceServer(t)
	config.AppConfig.TceAPIBaseURL = srv.URL

	client := NewTceClient("session-token")

	clientID, err := client.FetchClientID()
	require.NoError(t, err)
	assert.Equal(t, "900", clientID.ClientTimeout)
	assert.Equal(t, int64(0), clientID.Tstamp)

	token, err := client.FetchToken()
	require.NoError(t, err)
	assert.Equal(t, "player-token", token.AccessToken)
	assert.Equal(t, int64(1700000900000), token.Tstamp)

	assets, err := client.FetchAssets([]string{"A100", "A200"}, token.AccessToken)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "Light", assets[0].Title)
	assert.Equal(t, "A200", assets[1].AssetID)
}

func TestTceClient_RejectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":    nil,
			"message": "client not registered",
			"success": false,
		})
	}))
	t.Cleanup(srv.Close)
	config.AppConfig.TceAPIBaseURL = srv.URL

	_, err := NewTceClient("session-token").FetchClientID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client not registered")
}

func TestTceClient_FetchAssetsEmptyIDs(t *testing.T) {
	assets, err := NewTceClient("session-token").FetchAssets(nil, "tok")
	require.NoError(t, err)
	assert.Nil(t, assets)
}

func TestExpiryTime(t *testing.T) {
	client := &ClientID{ClientTimeout: "900"}

	t.Run("token timestamp wins when set", func(t *testing.T) {
		got, err := ExpiryTime(&TokenData{Tstamp: 1700000900000}, client)
		require.NoError(t, err)
		assert.Equal(t, int64(1700000900000), got)
	})

	t.Run("falls back to the client timeout", func(t *testing.T) {
		got, err := ExpiryTime(&TokenData{}, client)
		require.NoError(t, err)
		assert.Equal(t, int64(900), got)
	})

	t.Run("unparseable timeout is zero", func(t *testing.T) {
		got, err := ExpiryTime(&TokenData{}, &ClientID{ClientTimeout: "soon"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("missing token or client is an error", func(t *testing.T) {
		_, err := ExpiryTime(nil, client)
		assert.Error(t, err)
		_, err = ExpiryTime(&TokenData{}, nil)
		assert.Error(t, err)
	})
}

func TestThumbnailURL(t *testing.T) {
	asset := &TCEAsset{AssetID: "A100", EncryptedFilePath: "enc-1", ThumbFileName: "light.png"}
	assert.Equal(t,
		"/tce-repo-api/1/web/1/content/fileservice/enc-1/A100/light.png",
		ThumbnailURL(asset))

	assert.Empty(t, ThumbnailURL(nil))
	assert.Empty(t, ThumbnailURL(&TCEAsset{AssetID: "A100", ThumbFileName: "light.png"}))
	assert.Empty(t, ThumbnailURL(&TCEAsset{AssetID: "A100", EncryptedFilePath: "enc-1"}))
}

func TestOAuthExchangeAndRefresh(t *testing.T) {
	var lastBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/api/user/oauth/token":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))
			if lastBody["grantType"] == "authorization_code" && lastBody["code"] != "good-code" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "invalid code"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"accessToken":  "access-1",
				"refreshToken": "refresh-1",
				"tokenType":    "Bearer",
				"expiresIn":    int64(3600),
				"userInfo":     map[string]string{"userName": "sunil", "role": "Teacher"},
			})
		case "/v1/api/user/oauth/validate":
			if r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	config.AppConfig.TceAPIBaseURL = srv.URL

	t.Run("exchange", func(t *testing.T) {
		out, err := ExchangeCode("good-code", "http://localhost:3000/auth/callback")
		require.NoError(t, err)
		assert.Equal(t, "access-1", out.AccessToken)
		assert.Equal(t, "sunil", out.UserInfo.UserName)
		assert.Equal(t, "TCE-TEST-APP", lastBody["clientId"])
		assert.Equal(t, "http://localhost:3000/auth/callback", lastBody["redirectUri"])
	})

	t.Run("exchange rejects a bad code", func(t *testing.T) {
		_, err := ExchangeCode("bad-code", "http://localhost:3000/auth/callback")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid code")
	})

	t.Run("refresh", func(t *testing.T) {
		out, err := RefreshTokens("refresh-0")
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", out.RefreshToken)
		assert.Equal(t, "refresh_token", lastBody["grantType"])
	})

	t.Run("validate", func(t *testing.T) {
		assert.NoError(t, ValidateToken("access-1"))
		assert.Error(t, ValidateToken("stale"))
	})
}
