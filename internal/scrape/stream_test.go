package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_DirectScan(t *testing.T) {
	page := `<html><body>
		<audio src="https://edge3.ark2.live/wmbr-4242/index.m3u8"></audio>
	</body></html>`

	target, err := NewLocator().Resolve(page)

	require.NoError(t, err)
	assert.Equal(t, "https://edge3.ark2.live/wmbr-4242/index.m3u8", target.ManifestURL)
}

func TestLocator_DirectScanRejectsForeignHosts(t *testing.T) {
	page := `<a href="https://cdn.other.example/something/index.m3u8">stream</a>`

	_, err := NewLocator().Resolve(page)

	assert.ErrorIs(t, err, ErrStreamNotFound)
}

func TestLocator_Reconstruction(t *testing.T) {
	// A page carrying only the player config and a session attribute must
	// reconstruct the same URL a direct-link page would have yielded for
	// the same station and session.
	configPage := `<html><body>
		<div class="player" data-stream-start-session="4242"></div>
		<script>ark2Player.init({"baseUrl": "https://edge3.ark2.live", "station": "wmbr", "autoplay": {"enabled": true}});</script>
	</body></html>`
	directPage := `<audio src="https://edge3.ark2.live/wmbr-4242/index.m3u8"></audio>`

	loc := NewLocator()

	fromConfig, err := loc.Resolve(configPage)
	require.NoError(t, err)

	fromDirect, err := loc.Resolve(directPage)
	require.NoError(t, err)

	assert.Equal(t, fromDirect.ManifestURL, fromConfig.ManifestURL)
}

func TestLocator_MalformedConfigIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{
			name: "unparsable config object",
			page: `<div data-stream-start-session="4242"></div>
				<script>ark2Player.init({baseUrl: broken</script>`,
		},
		{
			name: "config missing station",
			page: `<div data-stream-start-session="4242"></div>
				<script>ark2Player.init({"baseUrl": "https://edge3.ark2.live"});</script>`,
		},
		{
			name: "session without config",
			page: `<div data-stream-start-session="4242"></div>`,
		},
		{
			name: "config without session",
			page: `<script>ark2Player.init({"baseUrl": "https://edge3.ark2.live", "station": "wmbr"});</script>`,
		},
		{
			name: "nothing at all",
			page: `<html><body>plain page</body></html>`,
		},
	}

	loc := NewLocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loc.Resolve(tt.page)
			assert.ErrorIs(t, err, ErrStreamNotFound)
		})
	}
}

func TestLocator_EntityEncodedAttributes(t *testing.T) {
	// Session markup sometimes arrives with entity-encoded quotes.
	page := `<div data-stream-start-session=&quot;4242&quot;></div>
		<script>ark2Player.init({&quot;baseUrl&quot;: &quot;https://edge3.ark2.live&quot;, &quot;station&quot;: &quot;wmbr&quot;});</script>`

	target, err := NewLocator().Resolve(page)

	require.NoError(t, err)
	assert.Equal(t, "https://edge3.ark2.live/wmbr-4242/index.m3u8", target.ManifestURL)
}

func TestBalancedObject(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{`init({"a": 1})`, `{"a": 1}`, true},
		{`init({"a": {"b": 2}}) trailing`, `{"a": {"b": 2}}`, true},
		{`init({"s": "br}ace"})`, `{"s": "br}ace"}`, true},
		{`init({"unterminated": 1`, "", false},
		{`no object here`, "", false},
	}

	for _, tt := range tests {
		got, ok := balancedObject(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		if ok {
			assert.Equal(t, tt.want, got, tt.input)
		}
	}
}
