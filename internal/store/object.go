package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates the document in an S3-compatible bucket
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	UseSSL    bool
}

// ObjectBlob stores the document as a single object. PutObject replaces
// the object atomically.
type ObjectBlob struct {
	client *minio.Client
	bucket string
	object string
	region string

	mu    sync.Mutex
	ready bool
}

// NewObjectBlob creates an ObjectBlob from cfg
func NewObjectBlob(cfg S3Config) (*ObjectBlob, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	object := strings.TrimSpace(cfg.Object)
	if object == "" {
		object = "translations.json"
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &ObjectBlob{client: client, bucket: bucket, object: object, region: region}, nil
}

// NewObjectStore creates a DocumentStore backed by an S3 object
func NewObjectStore(cfg S3Config) (*DocumentStore, error) {
	blob, err := NewObjectBlob(cfg)
	if err != nil {
		return nil, err
	}
	return NewDocumentStore(blob), nil
}

// ensureBucket creates the bucket on first use. Only success is remembered,
// so a failed check is retried on the next call.
func (o *ObjectBlob) ensureBucket(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ready {
		return nil
	}

	exists, err := o.client.BucketExists(ctx, o.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := o.client.MakeBucket(ctx, o.bucket, minio.MakeBucketOptions{Region: o.region}); err != nil {
			return err
		}
	}
	o.ready = true
	return nil
}

func (o *ObjectBlob) Read(ctx context.Context) ([]byte, bool, error) {
	if err := o.ensureBucket(ctx); err != nil {
		return nil, false, fmt.Errorf("ensure bucket: %w", err)
	}

	obj, err := o.client.GetObject(ctx, o.bucket, o.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, false, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (o *ObjectBlob) Write(ctx context.Context, data []byte) error {
	if err := o.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	_, err := o.client.PutObject(ctx, o.bucket, o.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (o *ObjectBlob) String() string {
	return "s3://" + o.bucket + "/" + o.object
}
