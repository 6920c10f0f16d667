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

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestSaveTicket(t *testing.T) {
	fp := &fakePutter{}
	a := NewTicketArchive(fp, "lot-tickets")

	key, err := a.SaveTicket(context.Background(), 2025, "PK-25-0001", []byte("%PDF-1.3"))
	require.NoError(t, err)

	assert.Equal(t, "tickets/2025/PK-25-0001.pdf", key)
	assert.Equal(t, "lot-tickets", aws.ToString(fp.input.Bucket))
	assert.Equal(t, key, aws.ToString(fp.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fp.input.ContentType))
	assert.Equal(t, []byte("%PDF-1.3"), fp.body)
}

func TestSaveTicketError(t *testing.T) {
	a := NewTicketArchive(&fakePutter{err: errors.New("denied")}, "b")

	_, err := a.SaveTicket(context.Background(), 2025, "PK-25-0001", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tickets/2025/PK-25-0001.pdf")
}
