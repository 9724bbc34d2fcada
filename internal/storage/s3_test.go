package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (r *recordingPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.input = in
	r.body, _ = io.ReadAll(in.Body)
	if r.err != nil {
		return nil, r.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestArchive_Put(t *testing.T) {
	putter := &recordingPutter{}
	a := NewArchive(putter, "store-exports", "exports/")

	err := a.Put(context.Background(), "po-pending.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "store-exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "exports/po-pending.pdf", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, []byte("%PDF"), putter.body)
}

func TestArchive_PutError(t *testing.T) {
	a := NewArchive(&recordingPutter{err: errors.New("denied")}, "b", "")

	err := a.Put(context.Background(), "x.csv", "text/csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put x.csv")
}
