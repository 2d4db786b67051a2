package export

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vesaa/ragdeck/internal/assets"
	"github.com/vesaa/ragdeck/internal/deck"
)

func setup(t *testing.T, images ...string) (afero.Fs, *assets.Resolver) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for _, img := range images {
		require.NoError(t, afero.WriteFile(mem, "/src/"+img, []byte("jpeg:"+img), 0o644))
	}
	return mem, assets.New(mem, "/src", "/assets")
}

func TestSite(t *testing.T) {
	mem, r := setup(t, deck.ImageModels, deck.ImageChatGPT, deck.ImageLangChain)

	report, err := Site(mem, r, Options{OutDir: "/out"}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"index.html",
		"pages/cover/index.html",
		"pages/overview/index.html",
		"pages/howto/index.html",
	}, report.Pages)
	assert.ElementsMatch(t, []string{deck.ImageModels, deck.ImageChatGPT, deck.ImageLangChain}, report.Assets)

	index, err := afero.ReadFile(mem, "/out/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(index), "How to Build a RAG System")
	assert.Contains(t, string(index), `href="/static/page.css"`)

	img, err := afero.ReadFile(mem, "/out/assets/"+deck.ImageChatGPT)
	require.NoError(t, err)
	assert.Equal(t, "jpeg:"+deck.ImageChatGPT, string(img))

	exists, err := afero.Exists(mem, "/out/static/page.css")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSiteIsIdempotent(t *testing.T) {
	mem, r := setup(t, deck.ImageModels, deck.ImageChatGPT, deck.ImageLangChain)

	_, err := Site(mem, r, Options{OutDir: "/out"}, zap.NewNop())
	require.NoError(t, err)
	first, err := afero.ReadFile(mem, "/out/index.html")
	require.NoError(t, err)

	_, err = Site(mem, r, Options{OutDir: "/out"}, zap.NewNop())
	require.NoError(t, err)
	second, err := afero.ReadFile(mem, "/out/index.html")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSiteStopsOnMissingAsset(t *testing.T) {
	mem, r := setup(t, deck.ImageModels, deck.ImageChatGPT)

	_, err := Site(mem, r, Options{OutDir: "/out"}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, assets.ErrNotFound)
	assert.Contains(t, err.Error(), "page rag")

	exists, _ := afero.Exists(mem, "/out/index.html")
	assert.False(t, exists)
}
