package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"hub-go/internal/config"
	"hub-go/internal/hub"
)

// S3Store implements the BlobStore interface on an S3 bucket. The revision
// travels in object metadata. S3 has no compare-and-swap, so the revision
// check is a head-before-put: it catches slow racers but two writes landing
// in the same instant can still clobber each other. Acceptable for a
// low-traffic internal tool; the repository retry narrows the window
// further.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

const revisionMetadataKey = "revision"

// NewS3Store creates an S3 blob store from configuration. When static
// credentials are present in the config they take precedence over the
// default AWS credential chain.
func NewS3Store(ctx context.Context, cfg config.BlobConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 blob store requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

// Get retrieves the document at key along with its current revision.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, int64, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, 0, hub.ErrNotFound
		}
		return nil, 0, fmt.Errorf("fetching blob from s3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading blob body: %w", err)
	}

	revision, err := metadataRevision(out.Metadata)
	if err != nil {
		return nil, 0, err
	}
	return data, revision, nil
}

// Put stores data at key. The expected revision is checked against the
// current object metadata before uploading; see the type comment for the
// consistency caveat.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	current, err := s.headRevision(ctx, key)
	if err != nil {
		return 0, err
	}
	if current != expectedRevision {
		return 0, hub.ErrRevisionMismatch
	}

	next := expectedRevision + 1
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
		Metadata: map[string]string{
			revisionMetadataKey: strconv.FormatInt(next, 10),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("uploading blob to s3: %w", err)
	}
	return next, nil
}

// Ping verifies the bucket is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("s3 bucket not accessible: %w", err)
	}
	return nil
}

// Close is a no-op; the S3 client holds no persistent connection.
func (s *S3Store) Close() error { return nil }

// headRevision returns the current revision of the object, 0 if the object
// does not exist.
func (s *S3Store) headRevision(ctx context.Context, key string) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("checking blob revision: %w", err)
	}
	return metadataRevision(out.Metadata)
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// metadataRevision reads the revision from object metadata. Objects written
// by other tools carry no revision and count as revision 0.
func metadataRevision(md map[string]string) (int64, error) {
	val, ok := md[revisionMetadataKey]
	if !ok {
		return 0, nil
	}
	revision, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing revision metadata: %w", err)
	}
	return revision, nil
}

// Compile-time check that S3Store implements hub.BlobStore
var _ hub.BlobStore = (*S3Store)(nil)
