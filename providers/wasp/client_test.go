package wasp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/picklr-io/flydeploy/internal/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	assert.Equal(t, "/srv/app/.wasp/build", ServerDir("/srv/app"))
	assert.Equal(t, "/srv/app/.wasp/build/web-app", ClientDir("/srv/app"))
}

func TestLooksLikeProject(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, LooksLikeProject(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), nil, 0o644))
	assert.True(t, LooksLikeProject(dir))
}

func TestBuildClient(t *testing.T) {
	rec := runnertest.New()
	c := New(rec)

	require.NoError(t, c.BuildClient(context.Background(), "/srv/app/.wasp/build/web-app", "https://acme-server.fly.dev"))
	assert.Equal(t, []string{"npm install", "npm run build"}, rec.Commands())
	assert.Equal(t, []string{"REACT_APP_API_URL=https://acme-server.fly.dev"}, rec.Calls[1].Env)
	assert.Equal(t, "/srv/app/.wasp/build/web-app", rec.Calls[1].Dir)
}

func TestBuildClientStopsOnInstallFailure(t *testing.T) {
	rec := runnertest.New().Fail("npm install")
	err := New(rec).BuildClient(context.Background(), "/w", "https://acme-server.fly.dev")
	require.Error(t, err)
	assert.False(t, rec.Ran("npm run build"))
}

func TestBuild(t *testing.T) {
	rec := runnertest.New()
	require.NoError(t, New(rec).Build(context.Background(), "/srv/app"))
	assert.Equal(t, []string{"wasp build"}, rec.Commands())
	assert.Equal(t, "/srv/app", rec.Calls[0].Dir)
}

func TestWriteStaticDockerfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteStaticDockerfile(dir))
	require.NoError(t, WriteStaticDockerfile(dir))

	data, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FROM pierrezemb/gostatic")
	assert.Contains(t, string(data), "COPY ./build/ /srv/http/")
	_, err = os.Stat(filepath.Join(dir, ".dockerignore"))
	assert.NoError(t, err)
}
