package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"parking-backend/internal/config"
)

// PutObjectAPI is the part of *s3.Client the archive uses
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// TicketArchive stores rendered ticket PDFs in an S3 compatible bucket
type TicketArchive struct {
	client PutObjectAPI
	bucket string
}

func NewTicketArchive(client PutObjectAPI, bucket string) *TicketArchive {
	return &TicketArchive{client: client, bucket: bucket}
}

// NewS3Client builds a client from the storage section. A custom endpoint
// (R2, MinIO) switches to path style addressing.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// TicketKey is tickets/<YYYY>/<ticket>.pdf
func TicketKey(year int, ticketNumber string) string {
	return fmt.Sprintf("tickets/%04d/%s.pdf", year, ticketNumber)
}

// SaveTicket uploads one PDF and returns its object key
func (a *TicketArchive) SaveTicket(ctx context.Context, year int, ticketNumber string, pdf []byte) (string, error) {
	key := TicketKey(year, ticketNumber)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	log.Printf("[Storage] Archived ticket %s to s3://%s/%s", ticketNumber, a.bucket, key)
	return key, nil
}
