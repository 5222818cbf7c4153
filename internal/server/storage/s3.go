package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/lumeshot/lumeshot/internal/common"
	sc "github.com/lumeshot/lumeshot/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return pc.PresignPostObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in, optFns...)
	}
)

// S3Storage implements ObjectStorage against any S3-compatible backend.
type S3Storage struct {
	config *sc.Config
}

func NewS3Storage(config *sc.Config) *S3Storage {
	return &S3Storage{config: config}
}

func (s *S3Storage) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		// trust/config problems poison the whole batch, not one file
		return nil, fmt.Errorf("%w: %v", common.ErrCredentials, err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// IssueUploadCredential requests a presigned POST policy for the key.
// The policy pins the exact content type, bounds the payload size to
// [0, MaxSize] and requires the original-name metadata field to be present.
func (s *S3Storage) IssueUploadCredential(ctx context.Context, req CredentialRequest) (*UploadCredential, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	presignClient := newS3PresignClient(client)

	bucket := s.config.S3Bucket
	metadata := map[string]string{
		"original-name":  req.OriginalName,
		"sanitized-name": req.SanitizedName,
		"original-path":  req.OriginalPath,
		"upload-session": req.SessionID,
		"uploaded-at":    time.Now().UTC().Format(time.RFC3339),
		"category-id":    req.CategoryID,
		"file-index":     strconv.Itoa(req.FileIndex),
	}
	if req.CategoryID == "" {
		metadata["category-id"] = "uncategorized"
	}

	post, err := presignPostObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(req.Key),
		ContentType: aws.String(req.ContentType),
		Metadata:    metadata,
	}, func(o *s3.PresignPostOptions) {
		o.Expires = req.Expiry
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, req.MaxSize},
			[]interface{}{"eq", "$Content-Type", req.ContentType},
			[]interface{}{"starts-with", "$x-amz-meta-original-name", ""},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIssuance, err)
	}

	return &UploadCredential{
		UploadURL: post.URL,
		Fields:    post.Values,
		FinalURL:  s.objectURL(req.Key),
		ExpiresAt: time.Now().Add(req.Expiry),
	}, nil
}

// CheckObject performs the authoritative HEAD check used by the completion
// reconciler. Client claims are never trusted blindly.
func (s *S3Storage) CheckObject(ctx context.Context, key string) (*ObjectInfo, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := headObject(client, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrVerification, err)
	}

	info := &ObjectInfo{}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	if out.ETag != nil {
		info.ETag = *out.ETag
	}
	if out.ContentType != nil {
		info.ContentType = *out.ContentType
	}
	return info, nil
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}
	presignClient := newS3PresignClient(client)

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// objectURL builds the public object URL: virtual-hosted AWS form by
// default, path-style when a custom endpoint is configured.
func (s *S3Storage) objectURL(key string) string {
	if s.config.S3BaseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s",
			strings.TrimRight(s.config.S3BaseEndpoint, "/"), s.config.S3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.S3Region, key)
}
