package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL+"/metadata", "test-token", 5*time.Second), srv
}

func TestRequestsCarryCredentialAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))

	_, _, err := client.FetchFeedPage(context.Background(), "", 20)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestFetchFeedPage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "c1", r.URL.Query().Get("cursor"))
		json.NewEncoder(w).Encode(map[string]any{
			"items":      []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}},
			"nextCursor": "c2",
		})
	}))

	posts, next, err := client.FetchFeedPage(context.Background(), "c1", 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "c2", next)
}

func TestFetchFeedPageNullCursorEndsPagination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"p1"}],"nextCursor":null}`))
	}))

	posts, next, err := client.FetchFeedPage(context.Background(), "", 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "", next)
}

func TestFetchViewingsBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"v1"},{"id":"v2"}]`))
	}))

	viewings, err := client.FetchViewings(context.Background())
	require.NoError(t, err)
	assert.Len(t, viewings, 2)
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusUnauthorized, func(t *testing.T, err error) {
			var authErr *AuthError
			assert.True(t, errors.As(err, &authErr))
		}},
		{http.StatusForbidden, func(t *testing.T, err error) {
			var authErr *AuthError
			assert.True(t, errors.As(err, &authErr))
		}},
		{http.StatusNotFound, func(t *testing.T, err error) {
			var notFound *NotFoundError
			assert.True(t, errors.As(err, &notFound))
		}},
		{http.StatusInternalServerError, func(t *testing.T, err error) {
			var netErr *NetworkError
			assert.True(t, errors.As(err, &netErr))
		}},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_, err := client.FetchViewings(context.Background())
		require.Error(t, err, "status %d", tc.status)
		tc.check(t, err)
	}
}

func TestJoinCircleSendsInviteCode(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"joined":true}`))
	}))

	require.NoError(t, client.JoinCircle(context.Background(), "c42", "SECRET"))
	assert.Equal(t, "/circles/c42/join", gotPath)
	assert.Equal(t, "SECRET", gotBody["inviteCode"])
}

func TestUpdateSelectedServices(t *testing.T) {
	var gotBody map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/me/streaming-services", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`[{"id":"s1","name":"Netflix"}]`))
	}))

	selection, err := client.UpdateSelectedServices(context.Background(), []string{"s1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, gotBody["serviceIds"])
	require.Len(t, selection, 1)
	assert.Equal(t, "Netflix", selection[0].Name)
}

func TestLookupTitle(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metadata/title", r.URL.Path)
		assert.Equal(t, "movie", r.URL.Query().Get("type"))
		assert.Equal(t, "348", r.URL.Query().Get("id"))
		w.Write([]byte(`{"title":"Alien","posterUrl":"https://img/alien.jpg"}`))
	}))

	title, poster, err := client.LookupTitle(context.Background(), "movie", "348")
	require.NoError(t, err)
	assert.Equal(t, "Alien", title)
	assert.Equal(t, "https://img/alien.jpg", poster)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", "tok", 500*time.Millisecond)

	_, err := client.FetchViewings(context.Background())
	require.Error(t, err)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestUpdateProfile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/me", r.URL.Path)
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{"name": body["name"], "username": body["username"]})
	}))

	saved, err := client.UpdateProfile(context.Background(), ProfileUpdate{Name: "Ida", Username: "ida_w"})
	require.NoError(t, err)
	assert.Equal(t, "Ida", saved.Name)
	assert.Equal(t, "ida_w", saved.Username)
}
