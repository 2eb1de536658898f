// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/creatorbridge/negotiation-backend/internal/config"
	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

// StorageService archives rendered contract documents to S3. Without AWS
// credentials it degrades to a no-op so local development needs no bucket.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type ArchiveResult struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
	Hash string `json:"hash"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// ArchiveContractDocument stores one rendered document version under a
// content-addressed key, so re-archiving identical content is harmless.
func (s *StorageService) ArchiveContractDocument(contract *models.Contract, document []byte) (*ArchiveResult, error) {
	hash := utils.HashString(string(document))
	key := fmt.Sprintf("contracts/%s/%s.html", contract.ID, hash[:16])

	result := &ArchiveResult{
		Key:  key,
		Size: int64(len(document)),
		Hash: hash,
	}

	if s.s3Client == nil {
		return result, nil
	}

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]*string{
			"contract-id": aws.String(contract.ID.String()),
			"archived-at": aws.String(time.Now().UTC().Format(time.RFC3339)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive contract document: %w", err)
	}

	result.URL = s.objectURL(key)
	return result, nil
}

func (s *StorageService) objectURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
