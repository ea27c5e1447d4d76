package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"rental-backend/internal/config"
	"rental-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the part of the S3 client the receipt store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ReceiptStore keeps receipts in an S3 compatible bucket (R2 in production).
type S3ReceiptStore struct {
	client ObjectAPI
	bucket string
	prefix string
}

func NewS3ReceiptStore(ctx context.Context, cfg *config.Config) (*S3ReceiptStore, error) {
	rc := cfg.Receipts
	if rc.Bucket == "" {
		return nil, fmt.Errorf("receipts.bucket is required for the s3 backend")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(rc.Region)}
	if rc.AccessKey != "" && rc.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			rc.AccessKey,
			rc.SecretKey,
			"",
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if rc.Endpoint != "" {
			o.BaseEndpoint = aws.String(rc.Endpoint)
		}
	})
	log.Printf("[Receipts] Storing receipts in bucket %s", rc.Bucket)
	return NewS3ReceiptStoreWithClient(client, rc.Bucket, rc.Prefix), nil
}

func NewS3ReceiptStoreWithClient(client ObjectAPI, bucket, prefix string) *S3ReceiptStore {
	return &S3ReceiptStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3ReceiptStore) key(id string) string {
	return s.prefix + id + ".pdf"
}

func (s *S3ReceiptStore) Save(ctx context.Context, data []byte) (string, error) {
	if err := checkSize(data); err != nil {
		return "", err
	}
	id := newReceiptID()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", models.Unavailable(err, "failed to upload receipt")
	}
	return id, nil
}

func (s *S3ReceiptStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ValidateReceiptID(id); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, models.NotFound("receipt %s not found", id)
		}
		return nil, models.Unavailable(err, "failed to fetch receipt")
	}
	return out.Body, nil
}
