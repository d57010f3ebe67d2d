package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/storage"
)

const resourcesFolder = "_recursos"

var ErrResourceNotFound = errors.New("recurso no encontrado")

// ResourceService institutional documents shared with every school.
type ResourceService interface {
	List(ctx context.Context) ([]dto.ResourceResponse, error)
	Upload(ctx context.Context, p Principal, title string, description *string, f FileUpload) (*dto.ResourceResponse, error)
	Delete(ctx context.Context, id string) error
}

type resourceService struct {
	repo      *repository.Repository
	store     storage.Store
	maxUpload int64
	logger    *zap.Logger
}

// NewResourceService creates a ResourceService.
func NewResourceService(repo *repository.Repository, store storage.Store, maxUpload int64, logger *zap.Logger) ResourceService {
	return &resourceService{repo: repo, store: store, maxUpload: maxUpload, logger: logger}
}

func (s *resourceService) List(ctx context.Context) ([]dto.ResourceResponse, error) {
	rows, err := s.repo.Resource.List(ctx)
	if err != nil {
		s.logger.Error("list resources failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ResourceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResourceResponse(&rows[i]))
	}
	return out, nil
}

func (s *resourceService) Upload(ctx context.Context, p Principal, title string, description *string, f FileUpload) (*dto.ResourceResponse, error) {
	contentType, err := checkUpload(f.Name, f.ContentType, f.Size, s.maxUpload)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Upload(ctx, storage.UploadInput{
		Folder:      resourcesFolder,
		FileName:    f.Name,
		ContentType: contentType,
		Size:        f.Size,
		Body:        f.Body,
	})
	if err != nil {
		s.logger.Error("resource upload failed", zap.String("name", f.Name), zap.Error(err))
		return nil, collaborator(err)
	}

	res := &model.Resource{
		Title:       strings.TrimSpace(title),
		FileName:    f.Name,
		BlobID:      obj.ID,
		URL:         obj.URL,
		ContentType: contentType,
		Size:        f.Size,
		UploadedBy:  p.UserID,
	}
	if description != nil {
		if d := strings.TrimSpace(*description); d != "" {
			res.Description = &d
		}
	}
	if err := s.repo.Resource.Create(ctx, res); err != nil {
		s.logger.Error("create resource failed", zap.Error(err))
		if derr := s.store.Delete(ctx, obj.ID); derr != nil {
			s.logger.Warn("orphan blob cleanup failed", zap.String("blob", obj.ID), zap.Error(derr))
		}
		return nil, err
	}

	s.logger.Info("resource uploaded", zap.String("title", res.Title), zap.String("by", p.UserID))
	resp := toResourceResponse(res)
	return &resp, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	res, err := s.repo.Resource.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	if err := s.store.Delete(ctx, res.BlobID); err != nil {
		s.logger.Error("resource blob delete failed", zap.String("id", id), zap.Error(err))
		return collaborator(err)
	}
	if err := s.repo.Resource.Delete(ctx, id); err != nil {
		s.logger.Error("delete resource failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toResourceResponse(r *model.Resource) dto.ResourceResponse {
	return dto.ResourceResponse{
		ID:          r.ResourceID,
		Title:       r.Title,
		Description: r.Description,
		FileName:    r.FileName,
		URL:         r.URL,
		ContentType: r.ContentType,
		Size:        r.Size,
		CreatedAt:   r.CreatedAt.Format(timeLayout),
	}
}
