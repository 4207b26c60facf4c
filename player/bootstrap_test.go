package player

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	styles  []string
	scripts []string
	failOn  string
}

func (f *fakeLoader) LoadStyle(href string) error {
	if href == f.failOn {
		return errors.New("load failed: " + href)
	}
	f.styles = append(f.styles, href)
	return nil
}

func (f *fakeLoader) LoadScript(src string) error {
	if src == f.failOn {
		return errors.New("load failed: " + src)
	}
	f.scripts = append(f.scripts, src)
	return nil
}

type fakeBridge struct {
	token       TokenDetail
	resource    ResourceDetail
	initCalls   int
	resizeCalls atomic.Int32

	onLoaded     func()
	unsubscribed bool
}

func (f *fakeBridge) ConfigureToken(detail TokenDetail)       { f.token = detail }
func (f *fakeBridge) ConfigureResource(detail ResourceDetail) { f.resource = detail }
func (f *fakeBridge) Init()                                   { f.initCalls++ }
func (f *fakeBridge) Resize()                                 { f.resizeCalls.Add(1) }

func (f *fakeBridge) Loaded(onLoaded func(), onError func(error)) func() {
	f.onLoaded = onLoaded
	return func() { f.unsubscribed = true }
}

func newTestBootstrap(registry *Registry) *Bootstrap {
	return NewBootstrap(registry, TokenDetail{
		AccessToken: "tok-1",
		ExpiryTime:  1700000000000,
		GenTime:     1699999000000,
	}, map[string]string{"assetId": "A100"})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("p1")
	assert.False(t, ok)

	first := &fakeBridge{}
	second := &fakeBridge{}
	r.Register("p1", first)
	r.Register("p1", second)

	got, ok := r.Lookup("p1")
	require.True(t, ok)
	assert.Same(t, second, got)

	r.Remove("p1")
	_, ok = r.Lookup("p1")
	assert.False(t, ok)
}

func TestLoadResources(t *testing.T) {
	t.Run("loads all three in order", func(t *testing.T) {
		b := newTestBootstrap(NewRegistry())
		loader := &fakeLoader{}

		require.NoError(t, b.LoadResources(loader))
		assert.Equal(t, StateResourcesLoaded, b.State())
		assert.Equal(t, []string{"/tceplayer-two/styles.css"}, loader.styles)
		require.Len(t, loader.scripts, 2)
		assert.Contains(t, loader.scripts[0], "resizePlayer.js")
		assert.Contains(t, loader.scripts[1], "tce-player-hybrid.js")
	})

	t.Run("repeat load skips loaded urls", func(t *testing.T) {
		b := newTestBootstrap(NewRegistry())
		loader := &fakeLoader{}

		require.NoError(t, b.LoadResources(loader))
		require.NoError(t, b.LoadResources(loader))
		assert.Len(t, loader.styles, 1)
		assert.Len(t, loader.scripts, 2)
	})

	t.Run("failure is retryable from where it stopped", func(t *testing.T) {
		b := newTestBootstrap(NewRegistry())
		loader := &fakeLoader{failOn: "/tceplayer-two/tce-player-hybrid.js"}

		assert.Error(t, b.LoadResources(loader))
		assert.Equal(t, StateNew, b.State())

		loader.failOn = ""
		require.NoError(t, b.LoadResources(loader))
		assert.Equal(t, StateResourcesLoaded, b.State())
		// The stylesheet and first script were not injected twice.
		assert.Len(t, loader.styles, 1)
		assert.Len(t, loader.scripts, 2)
	})
}

func TestCreateElement_RequiresResources(t *testing.T) {
	b := newTestBootstrap(NewRegistry())
	assert.ErrorIs(t, b.CreateElement(), ErrResourcesNotLoaded)

	require.NoError(t, b.LoadResources(&fakeLoader{}))
	require.NoError(t, b.CreateElement())
	assert.Equal(t, StateElementCreated, b.State())
}

func TestHandleLoadPlayer(t *testing.T) {
	setup := func(t *testing.T) (*Bootstrap, *Registry) {
		registry := NewRegistry()
		b := newTestBootstrap(registry)
		require.NoError(t, b.LoadResources(&fakeLoader{}))
		require.NoError(t, b.CreateElement())
		return b, registry
	}

	t.Run("configures token and resource then inits", func(t *testing.T) {
		b, registry := setup(t)
		bridge := &fakeBridge{}
		registry.Register("p1", bridge)

		b.HandleLoadPlayer("p1")

		assert.Equal(t, StateReady, b.State())
		assert.Equal(t, "tok-1", bridge.token.AccessToken)
		assert.Equal(t, "p1", bridge.resource.TcePlayerID)
		assert.Equal(t, MinEraserArea, bridge.resource.MinEraserArea)
		assert.Equal(t, "993px", bridge.resource.IFrameCSS.Width)
		assert.Equal(t, "610px", bridge.resource.IFrameCSS.Height)
		assert.Equal(t, 1, bridge.initCalls)

		// The loaded notification moves the machine to initialized.
		require.NotNil(t, bridge.onLoaded)
		bridge.onLoaded()
		assert.Equal(t, StateInitialized, b.State())
	})

	t.Run("duplicate event for the same player id is skipped", func(t *testing.T) {
		b, registry := setup(t)
		bridge := &fakeBridge{}
		registry.Register("p1", bridge)

		b.HandleLoadPlayer("p1")
		bridge.onLoaded()
		b.HandleLoadPlayer("p1")

		assert.Equal(t, 1, bridge.initCalls)
	})

	t.Run("missing bridge is a no-op", func(t *testing.T) {
		b, _ := setup(t)
		b.HandleLoadPlayer("ghost")
		assert.Equal(t, StateElementCreated, b.State())
	})

	t.Run("before element creation is a no-op", func(t *testing.T) {
		registry := NewRegistry()
		bridge := &fakeBridge{}
		registry.Register("p1", bridge)

		b := newTestBootstrap(registry)
		require.NoError(t, b.LoadResources(&fakeLoader{}))

		b.HandleLoadPlayer("p1")
		assert.Equal(t, 0, bridge.initCalls)
	})
}

func TestTeardown(t *testing.T) {
	registry := NewRegistry()
	bridge := &fakeBridge{}
	registry.Register("p1", bridge)

	b := newTestBootstrap(registry)
	require.NoError(t, b.LoadResources(&fakeLoader{}))
	require.NoError(t, b.CreateElement())
	b.HandleLoadPlayer("p1")
	bridge.onLoaded()

	b.Teardown()

	assert.True(t, bridge.unsubscribed)
	assert.Equal(t, StateResourcesLoaded, b.State())

	// A new element can go through the handshake again.
	require.NoError(t, b.CreateElement())
	b.HandleLoadPlayer("p1")
	assert.Equal(t, 2, bridge.initCalls)
}

type fakeSurface struct {
	fullscreen bool
}

func (f *fakeSurface) Request() error     { f.fullscreen = true; return nil }
func (f *fakeSurface) Exit() error        { f.fullscreen = false; return nil }
func (f *fakeSurface) IsFullscreen() bool { return f.fullscreen }

func TestToggleFullscreen(t *testing.T) {
	registry := NewRegistry()
	bridge := &fakeBridge{}
	registry.Register("p1", bridge)

	b := newTestBootstrap(registry)
	require.NoError(t, b.LoadResources(&fakeLoader{}))
	require.NoError(t, b.CreateElement())
	b.HandleLoadPlayer("p1")

	fs := &fakeSurface{}
	require.NoError(t, b.ToggleFullscreen(fs))
	assert.True(t, fs.fullscreen)

	require.NoError(t, b.ToggleFullscreen(fs))
	assert.False(t, fs.fullscreen)

	// The resize nudge runs after layout settles.
	assert.Eventually(t, func() bool {
		return bridge.resizeCalls.Load() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestResourceURLs(t *testing.T) {
	urls := ResourceURLs()
	require.Len(t, urls, 3)
	assert.Equal(t, "/tceplayer-two/styles.css", urls[0])
}
