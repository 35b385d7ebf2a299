package audiostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

// Config holds the S3-compatible bucket settings for generated audio
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN/public base for returned URLs
}

// LoadConfig loads audio storage configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AccessKeyID:     env.GetEnv("AUDIO_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("AUDIO_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("AUDIO_S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("AUDIO_S3_BUCKET_NAME", "hype-audio"),
		EndpointURL:     env.GetEnv("AUDIO_S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("AUDIO_S3_PUBLIC_BASE_URL", ""),
	}

	if cfg.AccessKeyID == "" {
		return nil, errors.New("AUDIO_S3_ACCESS_KEY_ID is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("AUDIO_S3_SECRET_ACCESS_KEY is required")
	}
	return cfg, nil
}

// Store uploads generated hype audio to an S3-compatible bucket
type Store struct {
	s3Client *s3.Client
	config   *Config
}

// NewStore creates an audio store client
func NewStore(cfg *Config) (*Store, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	store := &Store{
		s3Client: s3Client,
		config:   cfg,
	}

	log.Infof("[AudioStore] Initialized S3 client for bucket: %s", cfg.BucketName)
	return store, nil
}

// objectKey is the bucket path for one record's audio file
func (s *Store) objectKey(userID, recordID string) string {
	return fmt.Sprintf("%s/%s.mp3", userID, recordID)
}

// Upload stores the MP3 stream for a hype record and returns its public URL
func (s *Store) Upload(ctx context.Context, userID, recordID string, audio io.Reader) (string, error) {
	key := s.objectKey(userID, recordID)

	// PutObject needs a seekable body or a known length for signing; buffer
	// the stream since hype clips are small (a few hundred KB).
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("failed to read audio stream: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("audio/mpeg"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to S3: %w", err)
	}

	log.Infof("[AudioStore] Uploaded audio: s3://%s/%s (%d bytes)", s.config.BucketName, key, len(data))
	return s.PublicURL(key), nil
}

// PublicURL builds the externally reachable URL for an object key
func (s *Store) PublicURL(key string) string {
	if s.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.PublicBaseURL, "/"), key)
	}
	if s.config.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.EndpointURL, "/"), s.config.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.BucketName, s.config.Region, key)
}
