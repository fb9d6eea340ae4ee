// ===============================
// internal/storage/r2.go - Cloudflare R2 Object Storage
// ===============================

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"videotube/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const r2APIDomain = ".r2.cloudflarestorage.com"

type R2Client struct {
	client     s3iface.S3API
	bucketName string
	publicURL  string
}

func NewR2Client(cfg config.R2Config) (*R2Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String("https://" + cfg.AccountID + r2APIDomain),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create R2 session: %w", err)
	}

	return newR2Client(s3.New(sess), cfg.BucketName, cfg.PublicURL), nil
}

func newR2Client(client s3iface.S3API, bucket, publicURL string) *R2Client {
	return &R2Client{
		client:     client,
		bucketName: bucket,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}
}

func (r *R2Client) UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	_, err := r.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return nil
}

// DeleteFile removes an object. Deleting a missing key is not an error.
func (r *R2Client) DeleteFile(ctx context.Context, key string) error {
	_, err := r.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil
		}
		return fmt.Errorf("failed to delete %s from R2: %w", key, err)
	}
	return nil
}

func (r *R2Client) GetPublicURL(key string) string {
	return fmt.Sprintf("%s/%s", r.publicURL, key)
}

// KeyFromURL derives the object key from a public URL. Both the configured
// public base and path-style bucket URLs are accepted. The bucket segment is
// only stripped on the account API host, where it is part of the path.
func (r *R2Client) KeyFromURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty media URL")
	}

	if r.publicURL != "" && strings.HasPrefix(rawURL, r.publicURL+"/") {
		key := strings.TrimPrefix(rawURL, r.publicURL+"/")
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
		if key != "" {
			return key, nil
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid media URL %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if r.isPathStyleHost(parsed.Hostname()) {
		key = strings.TrimPrefix(key, r.bucketName+"/")
	}
	if key == "" {
		return "", fmt.Errorf("media URL %q has no object key", rawURL)
	}
	return key, nil
}

// isPathStyleHost reports whether host is the account API endpoint rather
// than a bucket subdomain or a custom domain.
func (r *R2Client) isPathStyleHost(host string) bool {
	host = strings.ToLower(host)
	return strings.HasSuffix(host, r2APIDomain) && !strings.HasPrefix(host, strings.ToLower(r.bucketName)+".")
}
