// Package player adapts the embedded TCE player's integration contract.
// The third-party player finds its host through a page-global reference
// object keyed by player id; every call site here goes through the typed
// Registry instead of touching that global directly.
package player

import "sync"

// TokenDetail is the access-token payload pushed into the player.
type TokenDetail struct {
	AccessToken string `json:"access_token"`
	ExpiryTime  int64  `json:"access_token_expiry_time"`
	GenTime     int64  `json:"access_token_gen_time"`
}

// IFrameCSS is the fixed geometry the player iframe is pinned to.
type IFrameCSS struct {
	Position  string `json:"position"`
	Top       string `json:"top"`
	Left      string `json:"left"`
	Width     string `json:"width"`
	Height    string `json:"height"`
	OverflowX string `json:"overflowX"`
	OverflowY string `json:"overflowY"`
}

// ResourceDetail is the asset configuration pushed into the player.
type ResourceDetail struct {
	TcePlayerID   string      `json:"tcePlayerId"`
	ResourceData  interface{} `json:"resourceData"`
	IFrameCSS     IFrameCSS   `json:"iFrameCss"`
	BaseURL       string      `json:"baseUrl"`
	Gateway       string      `json:"gateway"`
	MinEraserArea int64       `json:"minEraserArea"`
}

// Bridge is the per-player-instance control surface the external player
// exposes. Loaded subscribes to the player's "loaded" notification and
// returns the unsubscribe handle.
type Bridge interface {
	ConfigureToken(detail TokenDetail)
	ConfigureResource(detail ResourceDetail)
	Init()
	Resize()
	Loaded(onLoaded func(), onError func(error)) (unsubscribe func())
}

// Registry maps player ids to their bridges.
type Registry struct {
	mu      sync.RWMutex
	bridges map[string]Bridge
}

func NewRegistry() *Registry {
	return &Registry{bridges: make(map[string]Bridge)}
}

// Register makes a bridge reachable under a player id. A later Register
// for the same id replaces the earlier bridge.
func (r *Registry) Register(playerID string, b Bridge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bridges[playerID] = b
}

// Lookup returns the bridge for a player id, if one is registered.
func (r *Registry) Lookup(playerID string) (Bridge, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bridges[playerID]
	return b, ok
}

// Remove forgets a player id.
func (r *Registry) Remove(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bridges, playerID)
}
