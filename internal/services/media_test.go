package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	bucket  string
	key     string
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(_ context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return "https://signed.example/" + f.bucket + "/" + f.key, nil
}

func TestMediaSigner_ResolvesS3References(t *testing.T) {
	fake := &fakePresigner{}
	signer := newMediaSigner(fake, "beemine-media", "ap-south-1", 10*time.Minute)

	got := signer.Resolve(context.Background(), "s3://kyc-docs/verifications/12/doc.jpg")
	assert.Equal(t, "https://signed.example/kyc-docs/verifications/12/doc.jpg", got)
	assert.Equal(t, "kyc-docs", fake.bucket)
	assert.Equal(t, "verifications/12/doc.jpg", fake.key)
	assert.Equal(t, 10*time.Minute, fake.expires)
}

func TestMediaSigner_ResolvesConfiguredBucketURL(t *testing.T) {
	fake := &fakePresigner{}
	signer := newMediaSigner(fake, "beemine-media", "ap-south-1", 0)

	got := signer.Resolve(context.Background(), "https://beemine-media.s3.ap-south-1.amazonaws.com/selfies/4.jpg")
	assert.Equal(t, "https://signed.example/beemine-media/selfies/4.jpg", got)
	assert.Equal(t, 15*time.Minute, fake.expires)
}

func TestMediaSigner_LeavesOtherReferences(t *testing.T) {
	signer := newMediaSigner(&fakePresigner{}, "beemine-media", "ap-south-1", time.Minute)

	for _, ref := range []string{
		"",
		"https://sggsapp.co.in/beemine/uploads/1.jpg",
		"https://beemine-media.s3.ap-south-1.amazonaws.com/a.jpg?X-Amz-Signature=abc",
		"s3://bucket-only",
		"uploads/1.jpg",
	} {
		assert.Equal(t, ref, signer.Resolve(context.Background(), ref), ref)
	}
}

func TestMediaSigner_FallsBackOnError(t *testing.T) {
	signer := newMediaSigner(&fakePresigner{err: errors.New("no credentials")}, "", "us-east-1", time.Minute)

	ref := "s3://media/a.jpg"
	require.Equal(t, ref, signer.Resolve(context.Background(), ref))
}
