package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalBucketSaveOpenDelete(t *testing.T) {
	bucket, err := NewLocalBucket(t.TempDir())
	require.NoError(t, err)

	fileID, err := bucket.Save(strings.NewReader("lecture notes"))
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	file, err := bucket.Open(fileID)
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, file.Close())
	require.NoError(t, err)
	require.Equal(t, "lecture notes", string(content))

	require.NoError(t, bucket.Delete(fileID))
	_, err = bucket.Open(fileID)
	require.Error(t, err)
}

func TestLocalBucketDeleteMissingFile(t *testing.T) {
	bucket, err := NewLocalBucket(t.TempDir())
	require.NoError(t, err)

	require.Error(t, bucket.Delete("does-not-exist"))
}

func TestLocalBucketResolveStripsPathSegments(t *testing.T) {
	dir := t.TempDir()
	bucket, err := NewLocalBucket(dir)
	require.NoError(t, err)

	fileID, err := bucket.Save(strings.NewReader("x"))
	require.NoError(t, err)

	// A traversal-shaped id must resolve inside the bucket directory.
	require.Equal(t, bucket.Path(fileID), bucket.Path("../../"+fileID))
}
