package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/questx-lab/harmony/config"
)

type s3Storage struct {
	uploader *s3manager.Uploader
	cfg      config.S3Configs
}

func NewS3Storage(cfg config.S3Configs) (*s3Storage, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return &s3Storage{uploader: s3manager.NewUploader(sess), cfg: cfg}, nil
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	input, resp := s.prepare(object)
	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, *input.Bucket, resp.FileName)
	}

	return resp, nil
}

func (s *s3Storage) BulkUpload(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error) {
	batch := make([]s3manager.BatchUploadObject, 0, len(objects))
	out := make([]*UploadResponse, 0, len(objects))
	for _, o := range objects {
		input, resp := s.prepare(o)
		batch = append(batch, s3manager.BatchUploadObject{Object: input})
		out = append(out, resp)
	}

	err := s.uploader.UploadWithIterator(ctx, &s3manager.UploadObjectsIterator{Objects: batch})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *s3Storage) prepare(object *UploadObject) (*s3manager.UploadInput, *UploadResponse) {
	bucket := object.Bucket
	if bucket == "" {
		bucket = s.cfg.Bucket
	}

	key := objectKey(object.Prefix, object.FileName)
	input := &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(object.Data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(object.Mime),
	}

	return input, &UploadResponse{Url: publicURL(s.cfg, bucket, key), FileName: key}
}

// objectKey gives every upload a unique key so that stored URLs never point to a replaced file.
func objectKey(prefix, fileName string) string {
	name := uuid.NewString()
	if fileName != "" {
		name += "-" + path.Base(fileName)
	}

	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

func publicURL(cfg config.S3Configs, bucket, key string) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/") + "/" + key
	}

	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), bucket, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, cfg.Region, key)
}
