package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// MediaSigner rewrites private S3 media references into short-lived GET URLs.
// References are either s3://bucket/key or the virtual-hosted URL of the configured bucket.
// Anything else is returned unchanged.
type MediaSigner struct {
	client presignGetter
	bucket string
	region string
	expiry time.Duration
}

// presignGetter is the part of *s3.PresignClient the signer needs, returning only the URL
type presignGetter interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (string, error)
}

// s3PresignGetter adapts *s3.PresignClient to presignGetter
type s3PresignGetter struct {
	client *s3.PresignClient
}

func (g s3PresignGetter) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (string, error) {
	req, err := g.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// MediaOptions configures NewMediaSigner
type MediaOptions struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Expiry    time.Duration
}

// NewMediaSigner creates a new S3 media signer. Static keys are used when both are set,
// otherwise the default AWS credential chain applies.
func NewMediaSigner(ctx context.Context, opts MediaOptions) (*MediaSigner, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newMediaSigner(s3PresignGetter{client: s3.NewPresignClient(s3Client)}, opts.Bucket, opts.Region, opts.Expiry), nil
}

func newMediaSigner(client presignGetter, bucket, region string, expiry time.Duration) *MediaSigner {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &MediaSigner{client: client, bucket: bucket, region: region, expiry: expiry}
}

// Resolve implements MediaResolver. Signing failures fall back to the original reference.
func (m *MediaSigner) Resolve(ctx context.Context, ref string) string {
	bucket, key, ok := m.parse(ref)
	if !ok {
		return ref
	}

	signed, err := m.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = m.expiry
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Failed to presign media URL")
		return ref
	}
	return signed
}

// parse extracts bucket and key from a media reference
func (m *MediaSigner) parse(ref string) (string, string, bool) {
	ref = strings.TrimSpace(ref)
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return "", "", false
		}
		return bucket, key, true
	}

	if m.bucket == "" {
		return "", "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "https" {
		return "", "", false
	}
	if u.Host != fmt.Sprintf("%s.s3.%s.amazonaws.com", m.bucket, m.region) && u.Host != m.bucket+".s3.amazonaws.com" {
		return "", "", false
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" || u.RawQuery != "" {
		// already signed or not an object
		return "", "", false
	}
	return m.bucket, key, true
}
