package tceController

import (
	"log"
	"sync"

	"tcepreview/models/users"
	"tcepreview/player"
	"tcepreview/utils"

	"github.com/gofiber/fiber/v2"
)

// Bridges is the server-held registry player embeds report into. Call
// sites never touch the page-global reference object directly; everything
// goes through here.
var Bridges = player.NewRegistry()

// bootstraps tracks one player bootstrap per signed-in session.
var bootstraps sync.Map // sid -> *player.Bootstrap

// assetHostLoader satisfies the bootstrap's resource loading step for the
// server: the stylesheet and scripts are served from this host's public
// tree, so "loading" them is only a matter of tracking which are present.
type assetHostLoader struct{}

func (assetHostLoader) LoadStyle(string) error  { return nil }
func (assetHostLoader) LoadScript(string) error { return nil }

// GetPlayerData composes the full player payload for one asset: client id,
// access token, asset metadata and the bootstrap constants the embed needs.
func GetPlayerData(c *fiber.Ctx) error {
	assetID, _ := c.Locals("validatedAssetId").(string)
	session, _ := c.Locals("session").(*users.Session)

	client := utils.NewTceClient(session.Token)

	clientID, err := client.FetchClientID()
	if err != nil {
		log.Printf("Error fetching TCE client id: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch client ID"})
	}

	token, err := client.FetchToken()
	if err != nil {
		log.Printf("Error fetching TCE token: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch token"})
	}

	expiry, err := utils.ExpiryTime(token, clientID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	asset, err := client.FetchAsset(assetID, token.AccessToken)
	if err != nil {
		log.Printf("Error fetching TCE asset %s: %v", assetID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch asset details"})
	}

	tokenDetail := player.TokenDetail{
		AccessToken: token.AccessToken,
		ExpiryTime:  expiry,
		GenTime:     token.ExpiresIn,
	}

	// Replace any earlier bootstrap for this session before handing out a
	// new player payload.
	if prev, ok := bootstraps.Load(session.SID); ok {
		prev.(*player.Bootstrap).Teardown()
	}
	bootstrap := player.NewBootstrap(Bridges, tokenDetail, asset)
	if err := bootstrap.LoadResources(assetHostLoader{}); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load player resources"})
	}
	if err := bootstrap.CreateElement(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare player"})
	}
	bootstraps.Store(session.SID, bootstrap)

	return c.JSON(fiber.Map{
		"accessToken":  token.AccessToken,
		"expiryTime":   expiry,
		"expiresIn":    token.ExpiresIn,
		"asset":        asset,
		"thumbnailUrl": utils.ThumbnailURL(asset),
		"player": fiber.Map{
			"resources":     player.ResourceURLs(),
			"iframeCss":     player.DefaultIFrameCSS(),
			"minEraserArea": player.MinEraserArea,
		},
	})
}

// BatchPlayerData fetches metadata for a list of asset ids in one upstream
// round trip, for the asset browser grid.
func BatchPlayerData(c *fiber.Ctx) error {
	assetIDs, _ := c.Locals("validatedAssetIds").([]string)
	session, _ := c.Locals("session").(*users.Session)

	client := utils.NewTceClient(session.Token)

	clientID, err := client.FetchClientID()
	if err != nil {
		log.Printf("Error fetching TCE client id: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch client ID"})
	}

	token, err := client.FetchToken()
	if err != nil {
		log.Printf("Error fetching TCE token: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch token"})
	}

	expiry, err := utils.ExpiryTime(token, clientID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	assets, err := client.FetchAssets(assetIDs, token.AccessToken)
	if err != nil {
		log.Printf("Error fetching TCE assets: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch asset details"})
	}

	items := make([]fiber.Map, 0, len(assets))
	for i := range assets {
		items = append(items, fiber.Map{
			"asset":        assets[i],
			"thumbnailUrl": utils.ThumbnailURL(&assets[i]),
		})
	}

	return c.JSON(fiber.Map{
		"accessToken": token.AccessToken,
		"expiryTime":  expiry,
		"expiresIn":   token.ExpiresIn,
		"assets":      items,
	})
}

// LoadPlayer is the loadplayer event relay: the embedded player announced
// its id, so the session's bootstrap runs the handshake. An id with no
// registered bridge is a no-op by contract.
func LoadPlayer(c *fiber.Ctx) error {
	session, _ := c.Locals("session").(*users.Session)

	reqData := new(struct {
		PlayerID string `json:"playerId"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.PlayerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing playerId"})
	}

	value, ok := bootstraps.Load(session.SID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No player prepared for this session"})
	}

	bootstrap := value.(*player.Bootstrap)
	bootstrap.HandleLoadPlayer(reqData.PlayerID)

	return c.JSON(fiber.Map{"ok": true, "state": bootstrap.State()})
}

// PlayerState reports how far the session's player bootstrap has come.
func PlayerState(c *fiber.Ctx) error {
	session, _ := c.Locals("session").(*users.Session)

	value, ok := bootstraps.Load(session.SID)
	if !ok {
		return c.JSON(fiber.Map{"state": player.StateNew})
	}
	return c.JSON(fiber.Map{"state": value.(*player.Bootstrap).State()})
}
