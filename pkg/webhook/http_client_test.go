package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

func TestPublishPageEvent(t *testing.T) {
	var got eventPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/storefront/events", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	hook := &pagebuilder.NotificationsHook{Client: client, Channel: "storefront"}
	err = hook.PageUpdated(context.Background(), pagebuilder.PageEvent{
		StoreID:  "store-1",
		PageID:   "page-1",
		Reason:   "publish",
		Revision: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "store-1", got.StoreID)
	assert.Equal(t, "publish", got.Reason)
	assert.Equal(t, int64(4), got.Revision)
	assert.NotEmpty(t, got.Published)
}

func TestPublishPageEventRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel closed", http.StatusGone)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)

	err = client.PublishPageEvent(context.Background(), "", pagebuilder.PageEvent{StoreID: "store-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	require.Error(t, err)
}
