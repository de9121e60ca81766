package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	n := Derive("acme")
	assert.Equal(t, "acme", n.Base)
	assert.Equal(t, "acme-server", n.Server)
	assert.Equal(t, "acme-client", n.Client)
	assert.Equal(t, "acme-db", n.Database)
	assert.Equal(t, "https://acme-server.fly.dev", n.ServerURL)
	assert.Equal(t, "https://acme-client.fly.dev", n.ClientURL)
	assert.Equal(t, "acme-client", n.App(Client))
	assert.Equal(t, "acme-server", n.App(Server))
}

func TestDeriveWithDomain(t *testing.T) {
	n := DeriveWithDomain("acme", "example.dev")
	assert.Equal(t, "https://acme-server.example.dev", n.ServerURL)

	n = DeriveWithDomain("acme", "")
	assert.Equal(t, "https://acme-client.fly.dev", n.ClientURL)
}

func TestRecover(t *testing.T) {
	tests := []struct {
		name    string
		app     string
		tier    Tier
		want    string
		wantErr bool
	}{
		{name: "server", app: "acme-server", tier: Server, want: "acme"},
		{name: "client", app: "acme-client", tier: Client, want: "acme"},
		{name: "dashed base", app: "my-app-server", tier: Server, want: "my-app"},
		{name: "wrong tier", app: "acme-client", tier: Server, wantErr: true},
		{name: "empty", app: "", tier: Server, wantErr: true},
		{name: "suffix only", app: "-server", tier: Server, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recover(tt.app, tt.tier)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecoverRoundTrip(t *testing.T) {
	for _, tier := range Tiers {
		base, err := Recover(Derive("acme").App(tier), tier)
		require.NoError(t, err)
		assert.Equal(t, "acme", base)
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("Server")
	require.NoError(t, err)
	assert.Equal(t, Server, tier)

	tier, err = ParseTier("client")
	require.NoError(t, err)
	assert.Equal(t, Client, tier)

	_, err = ParseTier("db")
	assert.Error(t, err)
}

func TestValidateBase(t *testing.T) {
	assert.NoError(t, ValidateBase("acme"))
	assert.NoError(t, ValidateBase("my-app2"))
	assert.Error(t, ValidateBase(""))
	assert.Error(t, ValidateBase("Acme"))
	assert.Error(t, ValidateBase("acme_app"))
	assert.Error(t, ValidateBase("acme-"))
}
