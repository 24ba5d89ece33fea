package media

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresigner(t *testing.T) *Presigner {
	t.Helper()
	p, err := NewPresigner(context.Background(), Options{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		Bucket:    "academy-images",
		AccessKey: "test",
		SecretKey: "test-secret",
		Expiry:    10 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

func TestSignedURL(t *testing.T) {
	p := newTestPresigner(t)

	raw, err := p.SignedURL(context.Background(), "/courses/kali.jpg")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/academy-images/courses/kali.jpg", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestSignedURLKeepsAbsoluteURLs(t *testing.T) {
	p := newTestPresigner(t)

	raw, err := p.SignedURL(context.Background(), "https://images.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/a.png", raw)
}

func TestNewPresignerRequiresBucket(t *testing.T) {
	_, err := NewPresigner(context.Background(), Options{Region: "us-east-1"})
	assert.Error(t, err)
}
