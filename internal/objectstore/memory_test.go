package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreBehavesLikeDisk(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("http://localhost/storage")

	require.NoError(t, m.Upload(ctx, "img", "P1/b.png", []byte("b"), "image/png", false))
	require.NoError(t, m.Upload(ctx, "img", "P1/a.png", []byte("a"), "image/png", false))
	require.NoError(t, m.Upload(ctx, "img", "P1/nested/c.png", []byte("c"), "image/png", false))

	err := m.Upload(ctx, "img", "P1/a.png", []byte("x"), "image/png", false)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	objs, err := m.List(ctx, "img", "P1", 10)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "a.png", objs[0].Name)
	assert.Equal(t, "b.png", objs[1].Name)

	_, err = m.Download(ctx, "img", "P2/a.png")
	assert.True(t, IsNotFound(err))

	require.NoError(t, m.Remove(ctx, "img", "P1/a.png", "P1/missing.png"))
	objs, err = m.List(ctx, "img", "P1/", 10)
	require.NoError(t, err)
	assert.Len(t, objs, 1)

	assert.Equal(t, "http://localhost/storage/img/P1/b.png", m.PublicURL("img", "P1/b.png"))
}
