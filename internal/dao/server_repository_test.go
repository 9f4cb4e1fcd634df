package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/media-share-backup-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerDeleteHidesFromQueries(t *testing.T) {
	d := newTestDao(t)
	repo := NewServerRepository(d)
	ctx := context.Background()

	server, err := repo.Create(ctx, &domain.Server{
		Name:            "nas",
		Host:            "192.168.1.20",
		Port:            445,
		Share:           "photos",
		CredentialAlias: "nas-cred",
	})
	require.NoError(t, err)
	require.NotZero(t, server.ID)

	require.NoError(t, repo.Delete(ctx, server.ID))

	got, err := repo.GetByID(ctx, server.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	servers, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, servers)
}
