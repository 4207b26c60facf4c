package player

import (
	"errors"
	"log"
	"sync"
	"time"
)

// BootState tracks how far the player bootstrap has progressed.
type BootState string

const (
	StateNew             BootState = "new"
	StateResourcesLoaded BootState = "resources-loaded"
	StateElementCreated  BootState = "element-created"
	StateReady           BootState = "ready"
	StateInitialized     BootState = "initialized"
)

// The player ships as one stylesheet and two scripts; the resize helper
// must be present before the hybrid bundle runs.
var playerResources = []resource{
	{style, "/tceplayer-two/styles.css"},
	{script, "/tceplayer-two/assets/tcemedia/external/player-html/player/js/shell/common/resizePlayer.js"},
	{script, "/tceplayer-two/tce-player-hybrid.js"},
}

type resourceKind int

const (
	style resourceKind = iota
	script
)

type resource struct {
	kind resourceKind
	url  string
}

// ResourceLoader injects the player's external resources into the host
// document.
type ResourceLoader interface {
	LoadStyle(href string) error
	LoadScript(src string) error
}

// FullscreenSurface is the wrapper element fullscreen toggles against.
type FullscreenSurface interface {
	Request() error
	Exit() error
	IsFullscreen() bool
}

// MinEraserArea is the eraser hit-area pushed into the player. It must
// never win over the host UI, so the minimum sits far past any real
// widget size.
const MinEraserArea int64 = 10000000000

// ResourceURLs lists the external resources the player needs, in load
// order.
func ResourceURLs() []string {
	urls := make([]string, len(playerResources))
	for i, res := range playerResources {
		urls[i] = res.url
	}
	return urls
}

// DefaultIFrameCSS is the fixed geometry the player iframe is pinned to.
func DefaultIFrameCSS() IFrameCSS {
	return IFrameCSS{
		Position:  "absolute",
		Top:       "0px",
		Left:      "0px",
		Width:     "993px",
		Height:    "610px",
		OverflowX: "hidden",
		OverflowY: "hidden",
	}
}

// resizeDelay lets layout settle before the player recomputes its frame.
const resizeDelay = 100 * time.Millisecond

var ErrResourcesNotLoaded = errors.New("player resources not loaded")

// Bootstrap walks one player instance through resource loading, element
// creation and the loadplayer handshake.
type Bootstrap struct {
	mu sync.Mutex

	registry *Registry
	token    TokenDetail
	asset    interface{}

	state       BootState
	loadedURLs  map[string]bool
	playerID    string
	initialized bool
	unsubscribe func()
}

func NewBootstrap(registry *Registry, token TokenDetail, asset interface{}) *Bootstrap {
	return &Bootstrap{
		registry:   registry,
		token:      token,
		asset:      asset,
		state:      StateNew,
		loadedURLs: make(map[string]bool),
	}
}

// State returns the current bootstrap state.
func (b *Bootstrap) State() BootState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// LoadResources injects the stylesheet and scripts, skipping any URL
// already present. A failure leaves the machine where it was; the retry
// affordance is simply calling LoadResources again.
func (b *Bootstrap) LoadResources(loader ResourceLoader) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, res := range playerResources {
		if b.loadedURLs[res.url] {
			continue
		}

		var err error
		if res.kind == style {
			err = loader.LoadStyle(res.url)
		} else {
			err = loader.LoadScript(res.url)
		}
		if err != nil {
			return err
		}
		b.loadedURLs[res.url] = true
	}

	if b.state == StateNew {
		b.state = StateResourcesLoaded
	}
	return nil
}

// CreateElement marks the custom element created and its loadplayer
// listener attached. HandleLoadPlayer is that listener.
func (b *Bootstrap) CreateElement() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateNew {
		return ErrResourcesNotLoaded
	}
	b.state = StateElementCreated
	return nil
}

// HandleLoadPlayer runs the handshake for the player id announced by the
// loadplayer event: duplicate initializations for the same id are skipped,
// a missing bridge is a silent no-op, otherwise token and resource
// configuration are pushed and the player initialized.
func (b *Bootstrap) HandleLoadPlayer(playerID string) {
	b.mu.Lock()

	if b.state == StateNew || b.state == StateResourcesLoaded {
		b.mu.Unlock()
		return
	}
	if b.playerID == playerID && b.initialized {
		b.mu.Unlock()
		return
	}
	b.playerID = playerID

	bridge, ok := b.registry.Lookup(playerID)
	if !ok {
		// No bridge registered for this id; nothing initializes.
		b.mu.Unlock()
		return
	}

	bridge.ConfigureToken(b.token)
	bridge.ConfigureResource(ResourceDetail{
		TcePlayerID:   playerID,
		ResourceData:  b.asset,
		IFrameCSS:     DefaultIFrameCSS(),
		BaseURL:       "",
		Gateway:       "",
		MinEraserArea: MinEraserArea,
	})

	b.unsubscribe = bridge.Loaded(
		func() {
			b.mu.Lock()
			b.initialized = true
			b.state = StateInitialized
			b.mu.Unlock()
		},
		func(err error) {
			log.Printf("Player %s loading error: %v", playerID, err)
		},
	)

	b.state = StateReady
	b.mu.Unlock()

	bridge.Init()
}

// ToggleFullscreen flips the wrapper in or out of fullscreen and nudges
// the player to resize once layout has settled.
func (b *Bootstrap) ToggleFullscreen(fs FullscreenSurface) error {
	var err error
	if fs.IsFullscreen() {
		err = fs.Exit()
	} else {
		err = fs.Request()
	}
	if err != nil {
		return err
	}

	time.AfterFunc(resizeDelay, b.resize)
	return nil
}

func (b *Bootstrap) resize() {
	b.mu.Lock()
	playerID := b.playerID
	b.mu.Unlock()

	if playerID == "" {
		return
	}
	if bridge, ok := b.registry.Lookup(playerID); ok {
		bridge.Resize()
	}
}

// Teardown detaches the listener and drops the loaded subscription. The
// injected resources stay; they are loaded once per page lifetime.
func (b *Bootstrap) Teardown() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.playerID = ""
	b.initialized = false
	if b.state != StateNew {
		b.state = StateResourcesLoaded
	}
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
