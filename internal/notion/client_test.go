package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientQuery(t *testing.T) {
	var gotPath, gotVersion, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.Header.Get("Notion-Version")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"id": "page-1", "properties": map[string]interface{}{
					"Name": map[string]interface{}{
						"title": []map[string]interface{}{{"plain_text": "Work"}},
					},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("secret-token").WithBaseURL(srv.URL)
	pages, err := c.Query(context.Background(), "db-1", TitleEquals("Name", "Work"), 1)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, "page-1", pages[0].ID)
	assert.Equal(t, "Work", pages[0].TitleOf("Name"))
	assert.Equal(t, "/databases/db-1/query", gotPath)
	assert.Equal(t, "2022-06-28", gotVersion)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.EqualValues(t, 1, gotBody["page_size"])
}

func TestClientRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"validation_error","message":"Files is not a property that exists"}`))
	}))
	defer srv.Close()

	c := NewClient("t").WithBaseURL(srv.URL)
	_, err := c.CreatePage(context.Background(), "db-1", Properties{"Name": TitleProp("x")}, nil)
	require.Error(t, err)

	remote, ok := err.(*RemoteError)
	require.True(t, ok, "expected *RemoteError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.True(t, remote.SchemaMismatch())
}

func TestClientTransportErrorIsRemote(t *testing.T) {
	c := NewClient("t").WithBaseURL("http://127.0.0.1:1") // nothing listens here
	_, err := c.PatchPage(context.Background(), "p-1", Properties{})
	require.Error(t, err)

	remote, ok := err.(*RemoteError)
	require.True(t, ok)
	assert.Equal(t, 0, remote.Status)
}

func TestContentBlocksOrderAndKinds(t *testing.T) {
	blocks := ContentBlocks("hello", []ExternalFile{
		{Name: "pic.png", URL: "https://cdn.example/pic.png"},
		{Name: "doc.pdf", URL: "https://cdn.example/doc.pdf"},
	})
	require.Len(t, blocks, 3)
	assert.Equal(t, "paragraph", blocks[0].Type)
	assert.Equal(t, "image", blocks[1].Type)
	assert.Equal(t, "file", blocks[2].Type)
}

func TestContentBlocksEmptyText(t *testing.T) {
	blocks := ContentBlocks("", []ExternalFile{{Name: "a.png", URL: "https://x/a.png"}})
	require.Len(t, blocks, 1)
	assert.Equal(t, "image", blocks[0].Type)
}
