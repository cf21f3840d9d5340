package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReposURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.example.com/", ClientID: "id", ClientSecret: "secret"})
	u := c.ReposURL("octo cat")

	assert.True(t, strings.HasPrefix(u, "https://api.example.com/users/octo%20cat/repos?"))
	assert.Contains(t, u, "per_page=5")
	assert.Contains(t, u, "sort=created%3Aasc")
	assert.Contains(t, u, "client_id=id")
	assert.Contains(t, u, "client_secret=secret")

	bare := NewClient(Config{}).ReposURL("octocat")
	assert.True(t, strings.HasPrefix(bare, "https://api.github.com/users/octocat/repos?"))
	assert.NotContains(t, bare, "client_id")
}

func TestRepos(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")

		if r.URL.Path == "/users/ghost/repos" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}

		repos := make([]map[string]any, 0, 7)
		for i := 0; i < 7; i++ {
			repos = append(repos, map[string]any{"id": i, "name": fmt.Sprintf("repo-%d", i)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(repos)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})

	t.Run("relays at most five", func(t *testing.T) {
		repos, err := c.Repos(context.Background(), "octocat")
		require.NoError(t, err)
		require.Len(t, repos, PerPage)
		assert.JSONEq(t, `{"id":0,"name":"repo-0"}`, string(repos[0]))
		assert.Equal(t, "/users/octocat/repos", gotPath)
		assert.Equal(t, "devconnector", gotUA)
	})

	t.Run("non-200 is no profile", func(t *testing.T) {
		_, err := c.Repos(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrNoProfile)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Repos(ctx, "octocat")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRepos_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: addr, Timeout: time.Second})
	_, err := c.Repos(context.Background(), "octocat")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoProfile)
}
