package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return &Registry{
		Accounts: []Account{
			{ID: 1, Label: "a@x.com", Kind: AuthOAuth},
			{ID: 3, Label: "b@x.com", Kind: AuthToken},
			{ID: 4, Label: "c@x.com", Kind: AuthOAuth},
		},
		ActiveID: 3,
	}
}

func TestAuthKind_IsValid(t *testing.T) {
	assert.True(t, AuthOAuth.IsValid())
	assert.True(t, AuthToken.IsValid())
	assert.False(t, AuthKind("basic").IsValid())
	assert.False(t, AuthKind("").IsValid())
}

func TestRegistry_NextID(t *testing.T) {
	r := testRegistry()
	assert.Equal(t, 5, r.NextID())

	// IDs are never reused: removing the max account still yields max+1
	// only relative to what remains.
	empty := &Registry{}
	assert.Equal(t, 1, empty.NextID())
}

func TestRegistry_Resolve(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		name     string
		selector string
		wantID   int
		wantOK   bool
	}{
		{name: "numeric id", selector: "3", wantID: 3, wantOK: true},
		{name: "label", selector: "c@x.com", wantID: 4, wantOK: true},
		{name: "unknown id", selector: "2", wantOK: false},
		{name: "unknown label", selector: "nobody@x.com", wantOK: false},
		{name: "numeric never falls back to label", selector: "99", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, ok := r.Resolve(tt.selector)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantID, acct.ID)
			}
		})
	}
}

func TestRegistry_Active(t *testing.T) {
	r := testRegistry()
	acct, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "b@x.com", acct.Label)

	r.ActiveID = 0
	_, ok = r.Active()
	assert.False(t, ok)

	// ActiveID referring to a removed account resolves to nothing.
	r.ActiveID = 99
	_, ok = r.Active()
	assert.False(t, ok)
}

func TestRegistry_IndexOf(t *testing.T) {
	r := testRegistry()
	assert.Equal(t, 0, r.IndexOf(1))
	assert.Equal(t, 2, r.IndexOf(4))
	assert.Equal(t, -1, r.IndexOf(2))
}
