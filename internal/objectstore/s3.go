// internal/objectstore/s3.go
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config holds the connection settings of an S3-compatible service.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicURL is the prefix under which buckets are publicly readable,
	// e.g. https://<project>.supabase.co/storage/v1/object/public.
	PublicURL string
}

// S3Store is the S3-compatible Store driver.
type S3Store struct {
	client    s3iface.S3API
	region    string
	publicURL string
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3StoreWithClient(s3.New(sess), cfg.Region, cfg.PublicURL), nil
}

// NewS3StoreWithClient wraps an existing S3 client.
func NewS3StoreWithClient(client s3iface.S3API, region, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		region:    region,
		publicURL: publicURL,
	}
}

func (s *S3Store) Upload(ctx context.Context, bucket, p string, data []byte, contentType string, upsert bool) error {
	key, err := cleanKey(p)
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Path: p, Err: err}
	}

	if !upsert {
		_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			return &Error{Op: "upload", Bucket: bucket, Path: key, Err: ErrAlreadyExists}
		}
		if !isS3NotFound(err) {
			return &Error{Op: "upload", Bucket: bucket, Path: key, Err: err}
		}
	}

	params := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		params.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObjectWithContext(ctx, params); err != nil {
		return &Error{Op: "upload", Bucket: bucket, Path: key, Err: err}
	}
	return nil
}

func (s *S3Store) Download(ctx context.Context, bucket, p string) ([]byte, error) {
	key, err := cleanKey(p)
	if err != nil {
		return nil, &Error{Op: "download", Bucket: bucket, Path: p, Err: err}
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, &Error{Op: "download", Bucket: bucket, Path: key, Err: ErrNotFound}
		}
		return nil, &Error{Op: "download", Bucket: bucket, Path: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &Error{Op: "download", Bucket: bucket, Path: key, Err: err}
	}
	return data, nil
}

func (s *S3Store) List(ctx context.Context, bucket, prefix string, limit int) ([]Object, error) {
	pfx := listPrefix(prefix)
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(pfx),
		Delimiter: aws.String("/"),
	}
	if limit > 0 {
		input.MaxKeys = aws.Int64(int64(limit))
	}

	out, err := s.client.ListObjectsV2WithContext(ctx, input)
	if err != nil {
		return nil, &Error{Op: "list", Bucket: bucket, Path: pfx, Err: err}
	}

	objects := make([]Object, 0, len(out.Contents))
	for _, obj := range out.Contents {
		name := strings.TrimPrefix(aws.StringValue(obj.Key), pfx)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		objects = append(objects, Object{
			Name:         name,
			Size:         aws.Int64Value(obj.Size),
			LastModified: aws.TimeValue(obj.LastModified),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}
	return objects, nil
}

func (s *S3Store) Remove(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	ids := make([]*s3.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		key, err := cleanKey(p)
		if err != nil {
			return &Error{Op: "remove", Bucket: bucket, Path: p, Err: err}
		}
		ids = append(ids, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return &Error{Op: "remove", Bucket: bucket, Path: strings.Join(paths, ","), Err: err}
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return &Error{
			Op:     "remove",
			Bucket: bucket,
			Path:   aws.StringValue(first.Key),
			Err:    errors.New(aws.StringValue(first.Message)),
		}
	}
	return nil
}

func (s *S3Store) PublicURL(bucket, p string) string {
	if s.publicURL != "" {
		return joinURL(s.publicURL, bucket, p)
	}
	return joinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, s.region), "", p)
}

func isS3NotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
