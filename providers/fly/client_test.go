package fly

import (
	"context"
	"testing"

	"github.com/picklr-io/flydeploy/internal/runner"
	"github.com/picklr-io/flydeploy/internal/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	rec := runnertest.New().On("flyctl platform regions -j", runnertest.Response{
		Stdout: `[{"Code":"mia","Name":"Miami, Florida (US)"},{"Code":"ams","Name":"Amsterdam, Netherlands"}]`,
	})
	c := New(rec, "")

	regions, err := c.Regions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.True(t, HasRegion(regions, "mia"))
	assert.False(t, HasRegion(regions, "xyz"))
}

func TestRegionsBadJSON(t *testing.T) {
	rec := runnertest.New().On("flyctl platform regions", runnertest.Response{Stdout: "not json"})
	_, err := New(rec, "").Regions(context.Background())
	require.ErrorIs(t, err, ErrBadOutput)
	assert.Contains(t, err.Error(), "parse region list")
}

func TestListSecretsBadJSON(t *testing.T) {
	rec := runnertest.New().On("flyctl secrets list -j", runnertest.Response{Stdout: "Error: not authorized"})
	_, err := New(rec, "").ListSecrets(context.Background(), "/srv/app/.wasp/build")
	require.ErrorIs(t, err, ErrBadOutput)
	assert.Contains(t, err.Error(), "parse secret list")
}

func TestListSecrets(t *testing.T) {
	rec := runnertest.New().On("flyctl secrets list -j", runnertest.Response{
		Stdout: `[{"Name":"DATABASE_URL","Digest":"abc","CreatedAt":"2024-01-01T00:00:00Z"},{"Name":"JWT_SECRET","Digest":"def"}]`,
	})
	secrets, err := New(rec, "").ListSecrets(context.Background(), "/srv/app/.wasp/build")
	require.NoError(t, err)
	assert.True(t, HasSecret(secrets, DatabaseURLSecret))
	assert.False(t, HasSecret(secrets, "REDIS_URL"))

	inv, ok := rec.Find("flyctl secrets list")
	require.True(t, ok)
	assert.Equal(t, "/srv/app/.wasp/build", inv.Dir)
}

func TestSetSecretsIsSortedAndMasked(t *testing.T) {
	rec := runnertest.New()
	err := New(rec, "").SetSecrets(context.Background(), "/w", map[string]string{
		"WASP_WEB_CLIENT_URL": "https://acme-client.fly.dev",
		"JWT_SECRET":          "s3cr3t",
		"PORT":                "8080",
	})
	require.NoError(t, err)

	require.Len(t, rec.Calls, 1)
	inv := rec.Calls[0]
	assert.Equal(t, []string{"secrets", "set", "JWT_SECRET=s3cr3t", "PORT=8080", "WASP_WEB_CLIENT_URL=https://acme-client.fly.dev"}, inv.Args)
	assert.NotContains(t, inv.String(), "s3cr3t")
}

func TestCreatePostgres(t *testing.T) {
	rec := runnertest.New()
	c := New(rec, "fly")
	spec := PostgresSpec{Name: "acme-db", Region: "mia", VMSize: "shared-cpu-1x", InitialClusterSize: 1, VolumeSize: 1}

	require.NoError(t, c.CreatePostgres(context.Background(), "/w", spec))
	assert.Equal(t, []string{"fly postgres create --name acme-db --region mia --vm-size shared-cpu-1x --initial-cluster-size 1 --volume-size 1"}, rec.Commands())

	spec.Org = "acme-corp"
	require.NoError(t, c.CreatePostgres(context.Background(), "/w", spec))
	assert.True(t, rec.Ran("fly postgres create --name acme-db --region mia --vm-size shared-cpu-1x --initial-cluster-size 1 --volume-size 1 --org acme-corp"))
}

func TestDeployStrategy(t *testing.T) {
	rec := runnertest.New()
	c := New(rec, "")
	require.NoError(t, c.Deploy(context.Background(), "/w", RemoteBuild))
	require.NoError(t, c.Deploy(context.Background(), "/w", LocalBuild))
	assert.Equal(t, []string{"flyctl deploy --remote-only", "flyctl deploy --local-only"}, rec.Commands())
}

func TestFailuresAreToolErrors(t *testing.T) {
	rec := runnertest.New().Fail("flyctl auth whoami").Missing("flyctl")
	c := New(rec, "")

	err := c.WhoAmI(context.Background())
	assert.ErrorIs(t, err, runner.ErrToolFailed)
	assert.Error(t, c.Available())
}

func TestLaunch(t *testing.T) {
	rec := runnertest.New()
	require.NoError(t, New(rec, "").Launch(context.Background(), "/w", "acme-server", "mia"))
	assert.Equal(t, []string{"flyctl launch --no-deploy --name acme-server --region mia"}, rec.Commands())
	assert.True(t, rec.Calls[0].Stream)
}
