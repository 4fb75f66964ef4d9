package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/article"
)

func fixtureArticle(url, title string, claps int) article.Article {
	a := article.New(url)
	a.Title = title
	a.Subtitle = "Sub"
	a.Text = "Some body text"
	a.AuthorName = "Ada"
	a.AuthorURL = "https://medium.com/@ada"
	a.Claps = article.ClapCount(claps)
	a.ReadingTime = "4 min"
	a.Keywords = article.CommaList{"go", "search"}
	a.ImageURLs = article.CommaList{"https://miro.medium.com/v2/a.png"}
	a.ImageCount = 1
	a.ExternalLinkCount = 2
	return a
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.csv")
	store := NewStore(path, zap.NewNop())

	in := []article.Article{
		fixtureArticle("https://medium.com/a", "First", 100),
		fixtureArticle("https://medium.com/b", "Second", 0),
	}
	require.NoError(t, store.Write(in))

	out, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestStoreRefusesEmptyCorpus(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "snapshot.csv"), zap.NewNop())
	err := store.Write(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty corpus")
}

func TestStoreReadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())
	_, err := store.Read()
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreReadCoercesMalformedClaps(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.csv")
	csvData := "URL,Title,Subtitle,Text,No. of images,Image URLs,No. of external links," +
		"Author Name,Author URL,Claps,Reading Time,Keywords\n" +
		"https://medium.com/a,Title A,Sub,Text,0,,0,Ada,https://medium.com/@ada,not-a-number,3 min,go\n" +
		"https://medium.com/b,Title B,Sub,Text,0,,0,Bob,https://medium.com/@bob,250,5 min,go\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o600))

	store := NewStore(path, zap.NewNop())
	out, err := store.Read()
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, article.ClapCount(0), out[0].Claps)
	require.Equal(t, article.ClapCount(250), out[1].Claps)
}
