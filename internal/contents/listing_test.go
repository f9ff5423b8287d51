package contents

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingPage mimics a document-management folder view: the first record set
// lists sub-folders, the second lists files.
const listingPage = `<html><body>
<table class="recordSet">
  <tr><td class="recordSetHeader">Name</td></tr>
  <tr><td><a href="/alfresco/folder/ctd">CTD Data</a></td></tr>
</table>
<table class="recordSet">
  <tr>
    <th class="recordSetHeader">Name</th>
    <th class="recordSetHeader">Description</th>
  </tr>
  <tr>
    <td><a target="new" href="/alfresco/d/d/AT-42_Discrete_Summary.csv">AT-42_Discrete_Summary.csv</a></td>
    <td><span id="col13-txt-1">Discrete summary</span></td>
    <td><span id="col15-txt-1">120 KB</span></td>
    <td><span id="col16-txt-1">7 March 2019 14:47</span></td>
    <td><span id="col17-txt-1">8 March 2019 09:15</span></td>
  </tr>
  <tr>
    <td><a target="new" href="/alfresco/d/d/README.txt">README.txt</a></td>
    <td><span id="col13-txt-2"></span></td>
    <td><span id="col15-txt-2">2 KB</span></td>
    <td><span id="col16-txt-2">2019-03-01 10:00:00</span></td>
    <td><span id="col17-txt-2">2019-03-02 10:00:00</span></td>
  </tr>
</table>
</body></html>`

func TestParseListing(t *testing.T) {
	files, err := ParseListing(strings.NewReader(listingPage), "https://alfresco.example.org/alfresco/faces/browse?id=42")
	require.NoError(t, err)
	require.Len(t, files, 2)

	first := files[0]
	assert.Equal(t, "AT-42_Discrete_Summary.csv", first.Name)
	assert.Equal(t, "https://alfresco.example.org/alfresco/d/d/AT-42_Discrete_Summary.csv", first.URL)
	assert.Equal(t, "Discrete summary", first.Description)
	assert.Equal(t, "120 KB", first.Size)
	require.True(t, first.Created.Valid)
	assert.Equal(t, time.Date(2019, 3, 7, 14, 47, 0, 0, time.UTC), first.Created.Time)
	require.True(t, first.Modified.Valid)
	assert.Equal(t, time.Date(2019, 3, 8, 9, 15, 0, 0, time.UTC), first.Modified.Time)
	assert.Equal(t, Kind(""), first.Kind)

	second := files[1]
	assert.Equal(t, "README.txt", second.Name)
	assert.Empty(t, second.Description)
	assert.True(t, second.Modified.Valid)
}

func TestParseListingSkipsFolderTable(t *testing.T) {
	files, err := ParseListing(strings.NewReader(listingPage), "https://alfresco.example.org/x")
	require.NoError(t, err)
	for _, f := range files {
		assert.NotEqual(t, "CTD Data", f.Name)
	}
}

func TestParseListingDuplicateNameReplaces(t *testing.T) {
	page := `<table class="recordSet"></table>
<table class="recordSet">
<tr><td><a target="new" href="/a/1">f.csv</a></td><td><span id="col15-txt">1 KB</span></td></tr>
<tr><td><a target="new" href="/a/2">g.csv</a></td></tr>
<tr><td><a target="new" href="/a/3">f.csv</a></td><td><span id="col15-txt">3 KB</span></td></tr>
</table>`
	files, err := ParseListing(strings.NewReader(page), "http://host/folder")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "http://host/a/3", files[0].URL)
	assert.Equal(t, "3 KB", files[0].Size)
	assert.Equal(t, "g.csv", files[1].Name)
}

func TestParseListingNoRecordSet(t *testing.T) {
	_, err := ParseListing(strings.NewReader(`<table class="recordSet"></table>`), "http://host/")
	assert.ErrorIs(t, err, ErrNoRecordSet)
}
