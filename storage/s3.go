package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ttspipe/config"
)

var (
	ErrNoDataTransfered = errors.New("no data transfered")
)

const defaultPrefix = "speech"

type S3 struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicUrl string
	Prefix    string
}

// NewS3 builds the uploader from settings. It fails with
// config.ErrMissingStorage when no bucket or credentials are set.
func NewS3(settings config.S3Settings) (*S3, error) {
	if !settings.Configured() {
		return nil, fmt.Errorf("Storage.S3 needs Bucket, AccessKey and SecretKey; %w", config.ErrMissingStorage)
	}

	region := settings.Region
	if region == "" {
		region = "auto"
	}
	prefix := strings.Trim(settings.Prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": settings.Endpoint,
		"region":   region,
		"public":   settings.PublicUrl,
		"bucket":   settings.Bucket,
	}).Debugln("s3 configuration")

	return &S3{
		Endpoint:  settings.Endpoint,
		Region:    region,
		AccessKey: settings.AccessKey,
		SecretKey: settings.SecretKey,
		Bucket:    settings.Bucket,
		PublicUrl: strings.TrimRight(settings.PublicUrl, "/"),
		Prefix:    prefix,
	}, nil
}

// Key returns a fresh object key for audio in the given format.
func (s *S3) Key(format string) string {
	if format == "" {
		format = "mp3"
	}
	return path.Join(s.Prefix, uuid.NewString()+"."+format)
}

// URL is where an uploaded key can be fetched from.
func (s *S3) URL(key string) string {
	if s.PublicUrl != "" {
		return fmt.Sprintf("%s/%s", s.PublicUrl, key)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key)
}

func (s *S3) session() (*session.Session, error) {
	cfg := &aws.Config{
		Region:      aws.String(s.Region),
		Credentials: credentials.NewStaticCredentials(s.AccessKey, s.SecretKey, ""),
	}
	if s.Endpoint != "" {
		cfg.Endpoint = aws.String(s.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to s3; %w", err)
	}
	return sess, nil
}

// StreamUpload streams data to S3 in chunks and checks that
// something actually landed under key.
func (s *S3) StreamUpload(ctx context.Context, stream io.Reader, key string) error {
	sess, err := s.session()
	if err != nil {
		return err
	}

	uploader := s3manager.NewUploader(sess)
	_, err = uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   stream,
	}, func(u *s3manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024 // 10MB part size
		u.LeavePartsOnError = false   // on fail delete garbage
	})
	if err != nil {
		return fmt.Errorf("failed putobject; %w", err)
	}

	exists, err := s.KeyExists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check put succeeded; %w", err)
	}

	if !exists {
		return ErrNoDataTransfered
	}

	return nil
}

func (s *S3) KeyExists(ctx context.Context, key string) (bool, error) {
	sess, err := s.session()
	if err != nil {
		return false, err
	}

	s3Svc := s3.New(sess)

	out, err := s3Svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound": // HeadObject has no body, so a miss comes back as "NotFound"
				return false, nil
			default:
				return false, fmt.Errorf("failed to headobject; %w", err)
			}
		}
		return false, fmt.Errorf("failed to headobject not a awserr; %w", err)
	}
	// don't count a key as 'existing' if its 0 bytes
	if out.ContentLength != nil && *out.ContentLength == 0 {
		return false, nil
	}

	return true, nil
}
