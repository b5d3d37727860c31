package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhotoStorage_URLFor(t *testing.T) {
	s := &PhotoStorage{s3Bucket: "photos", region: "eu-west-1"}
	require.Equal(t, "https://photos.s3.eu-west-1.amazonaws.com/profiles/u1/p.jpg", s.urlFor("profiles/u1/p.jpg"))

	s.publicURL = "https://cdn.example.com"
	require.Equal(t, "https://cdn.example.com/profiles/u1/p.jpg", s.urlFor("profiles/u1/p.jpg"))
}
