package seed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-menu/pkg/logger"
)

type fakeBucket map[string][]byte

func (f fakeBucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestLoader_S3Sources(t *testing.T) {
	sample, err := os.ReadFile(sampleMenu)
	require.NoError(t, err)

	bucket := fakeBucket{"menus/luigis/menu.yaml": sample}
	loader := NewLoader(nil, logger.New("error"), WithS3(bucket))
	ctx := context.Background()

	docs, err := loader.LoadFromSources(ctx, []string{"s3://menus/luigis/menu.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "luigis", docs[0].Restaurants[0].ID)

	_, err = loader.LoadFromSources(ctx, []string{"s3://menus/missing.yaml"})
	assert.ErrorContains(t, err, "NoSuchKey")

	_, err = loader.LoadFromSources(ctx, []string{"s3://menus"})
	assert.ErrorContains(t, err, "s3://bucket/key")

	_, err = NewLoader(nil, logger.New("error")).LoadFromSources(ctx, []string{"s3://menus/luigis/menu.yaml"})
	assert.ErrorContains(t, err, "no S3 client")
}

func TestHasS3Sources(t *testing.T) {
	assert.False(t, HasS3Sources([]string{"menu.yaml", "https://example.com/menu.yaml"}))
	assert.True(t, HasS3Sources([]string{"menu.yaml", "s3://menus/menu.yaml.gz"}))
}
