package document

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"irs-portal/internal/config"
	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/notification"
)

type Service interface {
	Upload(ctx context.Context, projectID uuid.UUID, input UploadInput, file *multipart.FileHeader, uploader *domain.User) (*domain.ProjectDocument, error)
	List(ctx context.Context, projectID uuid.UUID, viewer *domain.User) ([]domain.ProjectDocument, error)
	GetDownloadURL(ctx context.Context, documentID uuid.UUID, viewer *domain.User) (string, error)
}

type UploadInput struct {
	Title           string `json:"title"`
	IsClientVisible bool   `json:"is_client_visible"`
}

type service struct {
	repos    *repository.Repositories
	minio    *minio.Client
	notifSvc notification.Service
	config   *config.Config
}

func NewService(repos *repository.Repositories, minioClient *minio.Client, notifSvc notification.Service, cfg *config.Config) Service {
	return &service{repos: repos, minio: minioClient, notifSvc: notifSvc, config: cfg}
}

const (
	maxFileSize     = 50 << 20 // 50 MB
	presignedExpiry = 15 * time.Minute
)

var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".png": true, ".jpg": true, ".jpeg": true, ".csv": true, ".txt": true,
}

func (s *service) Upload(ctx context.Context, projectID uuid.UUID, input UploadInput, file *multipart.FileHeader, uploader *domain.User) (*domain.ProjectDocument, error) {
	if input.Title == "" {
		return nil, domain.NewValidationError("title", "required")
	}
	if file.Size > maxFileSize {
		return nil, domain.NewValidationError("file", "exceeds 50 MB limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, domain.NewValidationError("file", fmt.Sprintf("file type %q is not allowed", ext))
	}

	proj, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	docID := uuid.New()
	objectKey := fmt.Sprintf("projects/%s/%s%s", proj.ID, docID, ext)

	_, err = s.minio.PutObject(ctx, s.config.MinIOBucket, objectKey, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.ProjectDocument{
		ID:              docID,
		ProjectID:       proj.ID,
		Title:           input.Title,
		ObjectKey:       objectKey,
		ContentType:     contentType,
		SizeBytes:       file.Size,
		IsClientVisible: input.IsClientVisible,
		UploadedBy:      uploader.ID,
	}
	if err := s.repos.Document.Create(ctx, doc); err != nil {
		// Best effort: don't leave the object orphaned if the row failed.
		if removeErr := s.minio.RemoveObject(ctx, s.config.MinIOBucket, objectKey, minio.RemoveObjectOptions{}); removeErr != nil {
			log.Printf("Failed to remove orphaned object %s: %v", objectKey, removeErr)
		}
		return nil, err
	}

	uploaderID := uploader.ID
	activity := &domain.ProjectActivity{
		ID:              uuid.New(),
		ProjectID:       proj.ID,
		Title:           fmt.Sprintf("Document %q uploaded", doc.Title),
		IsClientVisible: doc.IsClientVisible,
		CreatedBy:       &uploaderID,
	}
	if err := s.repos.Activity.Create(ctx, activity); err != nil {
		log.Printf("Failed to record document activity: %v", err)
	}

	if s.notifSvc != nil {
		go func(doc domain.ProjectDocument) {
			ctx := context.Background()
			if err := s.notifSvc.NotifyDocumentAdded(ctx, &doc); err != nil {
				log.Printf("Failed to notify document upload: %v", err)
			}
		}(*doc)
	}
	return doc, nil
}

// List applies the visibility gate: clients only ever see client-visible
// documents on their own projects.
func (s *service) List(ctx context.Context, projectID uuid.UUID, viewer *domain.User) ([]domain.ProjectDocument, error) {
	proj, err := s.repos.Project.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := checkProjectAccess(proj, viewer); err != nil {
		return nil, err
	}
	return s.repos.Document.ListByProject(ctx, projectID, !viewer.IsStaff())
}

func (s *service) GetDownloadURL(ctx context.Context, documentID uuid.UUID, viewer *domain.User) (string, error) {
	doc, err := s.repos.Document.GetByID(ctx, documentID)
	if err != nil {
		return "", err
	}

	proj, err := s.repos.Project.GetByID(ctx, doc.ProjectID)
	if err != nil {
		return "", err
	}
	if err := checkProjectAccess(proj, viewer); err != nil {
		return "", err
	}
	if !viewer.IsStaff() && !doc.IsClientVisible {
		return "", domain.ErrForbidden
	}

	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", doc.Title+filepath.Ext(doc.ObjectKey)))

	presigned, err := s.minio.PresignedGetObject(ctx, s.config.MinIOBucket, doc.ObjectKey, presignedExpiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return presigned.String(), nil
}

func checkProjectAccess(proj *domain.Project, viewer *domain.User) error {
	if viewer.IsStaff() {
		return nil
	}
	if viewer.ClientID == nil || *viewer.ClientID != proj.ClientID {
		return domain.ErrForbidden
	}
	return nil
}
