//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/localblog/internal/errcatalog"
	"github.com/2beens/localblog/internal/errpage"
	"github.com/2beens/localblog/internal/localstore"
)

func (s *IntegrationTestSuite) doJSON(
	ctx context.Context,
	t *testing.T,
	method, path string,
	body any,
	expectedStatus int,
	dst any,
) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, expectedStatus, resp.StatusCode)
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
}

// storedValue reads the raw persisted blob of a store key.
func (s *IntegrationTestSuite) storedValue(ctx context.Context, t *testing.T, key string) string {
	t.Helper()

	var value string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT value FROM kv_item WHERE namespace = $1 AND key = $2`,
		testNamespace, key,
	).Scan(&value)
	require.NoError(t, err)
	return value
}

func (s *IntegrationTestSuite) TestBlogs() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var post localstore.Blog

	s.T().Run("writes need a session", func(t *testing.T) {
		var errResp errpage.Response
		s.doJSON(ctx, t, "POST", "/blogs", map[string]string{"title": "t", "content": "c"}, http.StatusUnauthorized, &errResp)
		assert.Equal(t, http.StatusUnauthorized, errResp.StatusCode)
	})

	s.T().Run("signup and create post", func(t *testing.T) {
		s.doJSON(ctx, t, "POST", "/auth/signup", map[string]string{
			"username": "serj",
			"email":    "serj@example.com",
			"password": "secret123",
		}, http.StatusCreated, nil)

		s.doJSON(ctx, t, "POST", "/blogs", map[string]string{
			"title":   "integration",
			"content": "hello from postgres",
		}, http.StatusCreated, &post)
		require.NotEmpty(t, post.ID)

		var stored []map[string]any
		require.NoError(t, json.Unmarshal([]byte(s.storedValue(ctx, t, localstore.KeyBlogs)), &stored))
		require.NotEmpty(t, stored)
		// most recent first
		assert.Equal(t, post.ID, stored[0]["id"])
	})

	s.T().Run("likes and comments", func(t *testing.T) {
		var state struct {
			Liked bool `json:"liked"`
			Count int  `json:"count"`
		}
		s.doJSON(ctx, t, "POST", "/blogs/"+post.ID+"/like", nil, http.StatusOK, &state)
		assert.True(t, state.Liked)
		assert.Equal(t, 1, state.Count)

		var likes map[string]bool
		require.NoError(t, json.Unmarshal([]byte(s.storedValue(ctx, t, localstore.KeyLikes)), &likes))
		assert.Len(t, likes, 1)

		s.doJSON(ctx, t, "POST", "/blogs/"+post.ID+"/comments", map[string]string{"content": "nice"}, http.StatusCreated, nil)
	})

	s.T().Run("concurrent comments are not lost", func(t *testing.T) {
		const comments = 20
		var wg sync.WaitGroup
		for i := 0; i < comments; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s.doJSON(ctx, t, "POST", "/blogs/"+post.ID+"/comments",
					map[string]string{"content": fmt.Sprintf("comment %d", i)}, http.StatusCreated, nil)
			}(i)
		}
		wg.Wait()

		var resp struct {
			Total int `json:"total"`
		}
		s.doJSON(ctx, t, "GET", "/blogs/"+post.ID+"/comments", nil, http.StatusOK, &resp)
		assert.Equal(t, comments+1, resp.Total)
	})

	s.T().Run("delete cascades", func(t *testing.T) {
		s.doJSON(ctx, t, "DELETE", "/blogs/"+post.ID, nil, http.StatusOK, nil)

		var errResp errpage.Response
		s.doJSON(ctx, t, "GET", "/blogs/"+post.ID, nil, http.StatusNotFound, &errResp)
		assert.Equal(t, errcatalog.CodeResourceNotFound, errResp.ErrorCode)

		assert.Equal(t, "[]", s.storedValue(ctx, t, localstore.KeyComments))
		assert.Equal(t, "{}", s.storedValue(ctx, t, localstore.KeyLikes))
	})

	s.T().Run("unknown route", func(t *testing.T) {
		var page errcatalog.Page
		s.doJSON(ctx, t, "GET", "/nope/nope", nil, http.StatusNotFound, &page)
		assert.Equal(t, errcatalog.CodeNotFound, page.ErrorCode)
	})
}
