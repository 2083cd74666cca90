package templink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLink(t *testing.T) {
	expiration := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		token      string
		expiration time.Time
		method     string
		wantErr    error
		wantMethod string
	}{
		{
			name:       "valid link with lower case method",
			token:      "abc",
			expiration: expiration,
			method:     " post ",
			wantMethod: "POST",
		},
		{
			name:       "valid link without method",
			token:      "abc",
			expiration: expiration,
		},
		{
			name:       "empty token",
			expiration: expiration,
			wantErr:    ErrEmptyToken,
		},
		{
			name:    "zero expiration",
			token:   "abc",
			wantErr: ErrInvalidExpiration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := NewLink(tt.token, tt.expiration, true, tt.method, "refs", "/to", nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, link)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.token, link.Token())
			assert.Equal(t, tt.wantMethod, link.Method())
			assert.Equal(t, "refs", link.Refs())
			assert.Equal(t, "/to", link.Redirect())
			assert.True(t, link.OneTime())
		})
	}
}

func TestLink_IsExpired(t *testing.T) {
	expiration := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	link, err := NewLink[any]("abc", expiration, false, "", nil, "", nil)
	require.NoError(t, err)

	assert.False(t, link.IsExpired(expiration.Add(-time.Nanosecond)))
	assert.True(t, link.IsExpired(expiration))
	assert.True(t, link.IsExpired(expiration.Add(time.Second)))
}

func TestLink_AcceptsMethod(t *testing.T) {
	expiration := time.Now().Add(time.Minute)

	anyMethod, err := NewLink[any]("a", expiration, false, "", nil, "", nil)
	require.NoError(t, err)
	assert.True(t, anyMethod.AcceptsMethod("GET"))
	assert.True(t, anyMethod.AcceptsMethod("DELETE"))

	postOnly, err := NewLink[any]("b", expiration, false, "post", nil, "", nil)
	require.NoError(t, err)
	assert.True(t, postOnly.AcceptsMethod("POST"))
	assert.True(t, postOnly.AcceptsMethod("post"))
	assert.False(t, postOnly.AcceptsMethod("GET"))
}

func TestLink_HasAction(t *testing.T) {
	expiration := time.Now().Add(time.Minute)
	cb := CallbackFunc(func(Request, Response, Next) {})

	none, _ := NewLink[any]("a", expiration, false, "", nil, "", nil)
	redirect, _ := NewLink[any]("b", expiration, false, "", nil, "/x", nil)
	callback, _ := NewLink[any]("c", expiration, false, "", nil, "", cb)

	assert.False(t, none.HasAction())
	assert.True(t, redirect.HasAction())
	assert.True(t, callback.HasAction())
}

func TestNewLinkAddedEvent(t *testing.T) {
	link, err := NewLink("tok", time.Now().Add(time.Minute), true, "get", 42, "/x", nil)
	require.NoError(t, err)

	event := NewLinkAddedEvent(link, true)

	assert.Equal(t, EventTypeLinkAdded, event.GetEventType())
	assert.Equal(t, "tok", event.GetAggregateID())
	assert.Equal(t, "GET", event.Method)
	assert.True(t, event.Imported)
	assert.NotEmpty(t, event.EventID)
}
