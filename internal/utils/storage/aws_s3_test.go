package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicLinkRoundTrip(t *testing.T) {
	s := &awsS3{bucket: "recipes", region: "ap-southeast-1"}

	link := s.GetPublicLinkKey("exports/abc.txt")
	assert.Equal(t, "https://recipes.s3.ap-southeast-1.amazonaws.com/exports/abc.txt", link)
	assert.Equal(t, "exports/abc.txt", s.GetObjectKeyFromLink(link))
}

func TestGetObjectKeyFromForeignLink(t *testing.T) {
	s := &awsS3{bucket: "recipes", region: "ap-southeast-1"}
	assert.Empty(t, s.GetObjectKeyFromLink("https://images.unsplash.com/photo-1"))
	assert.Empty(t, s.GetObjectKeyFromLink(""))
}

func TestPutObjectWithoutClient(t *testing.T) {
	s := &awsS3{}
	_, err := s.PutObject(context.Background(), "k", "text/plain", []byte("x"))
	require.ErrorIs(t, err, ErrStorageNotConfigured)
	require.ErrorIs(t, s.DeleteFile("k"), ErrStorageNotConfigured)
}
