package resources

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLinkFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveResources_WebsitesAndVideos(t *testing.T) {
	websites := writeLinkFile(t, "websites.txt", `
maths - https://www.khanacademy.org/math
2. https://www.mathsisfun.com
science - https://www.physicsclassroom.com
`)
	videos := writeLinkFile(t, "videos.txt", `
maths - https://www.youtube.com/@MathChannel
`)

	resolver := NewResolver(websites, videos, slog.Default())

	links := resolver.ResolveResources("Algebra", 6)
	require.Contains(t, links, "Websites")
	assert.Equal(t, []string{
		"https://www.khanacademy.org/math",
		"https://www.mathsisfun.com",
	}, links["Websites"])

	require.Contains(t, links, "Videos")
	require.Len(t, links["Videos"], 1)
	assert.Contains(t, links["Videos"][0], "youtube.com/results?search_query=")
	assert.Contains(t, links["Videos"][0], "class+6")
	assert.Contains(t, links["Videos"][0], "MathChannel")
}

func TestResolveResources_WithoutClassLevel(t *testing.T) {
	videos := writeLinkFile(t, "videos.txt", "science - https://www.youtube.com/c/ScienceHub\n")
	resolver := NewResolver("", videos, slog.Default())

	links := resolver.ResolveResources("Science", 0)
	require.Contains(t, links, "Videos")
	assert.NotContains(t, links["Videos"][0], "class")
	assert.Contains(t, links["Videos"][0], "ScienceHub")
}

func TestResolveResources_SubjectAliases(t *testing.T) {
	websites := writeLinkFile(t, "websites.txt", "maths - https://www.khanacademy.org/math\n")
	resolver := NewResolver(websites, "", slog.Default())

	for _, topic := range []string{"Arithmetic", "Fractions", "Geometry", "Data Analysis", "math"} {
		links := resolver.ResolveResources(topic, 0)
		assert.Contains(t, links, "Websites", "topic %s should map onto maths", topic)
	}
}

func TestResolveResources_TypoNormalization(t *testing.T) {
	websites := writeLinkFile(t, "websites.txt", "science - https://example.com/science\n")
	resolver := NewResolver(websites, "", slog.Default())

	links := resolver.ResolveResources("Scirnce", 0)
	assert.Contains(t, links, "Websites")
}

func TestResolveResources_UnknownTopic(t *testing.T) {
	websites := writeLinkFile(t, "websites.txt", "maths - https://example.com\n")
	resolver := NewResolver(websites, "", slog.Default())

	links := resolver.ResolveResources("Underwater Basket Weaving", 3)
	assert.Empty(t, links)
}

func TestNewResolver_MissingFiles(t *testing.T) {
	resolver := NewResolver("/nonexistent/websites.txt", "/nonexistent/videos.txt", slog.Default())
	assert.Empty(t, resolver.ResolveResources("Algebra", 6))
}

func TestLoadLinkFile_NumberedAndBareURLs(t *testing.T) {
	path := writeLinkFile(t, "links.txt", `
english - 1. https://example.com/one
2. https://example.com/two
https://example.com/three
not a url line
`)

	sections := loadLinkFile(path, slog.Default())
	require.Contains(t, sections, "english")
	assert.Equal(t, []string{
		"https://example.com/one",
		"https://example.com/two",
		"https://example.com/three",
	}, sections["english"])
}
