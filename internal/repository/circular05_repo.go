package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
)

// Circular05Repository module settings and the generated document log.
type Circular05Repository interface {
	GetConfig(ctx context.Context) (*model.Circular05Config, error)
	SaveConfig(ctx context.Context, cfg *model.Circular05Config) error
	CreateDownload(ctx context.Context, d *model.Circular05Download) error
	ListDownloads(ctx context.Context, schoolID string) ([]model.Circular05Download, error)
}

type circular05Repo struct {
	db *gorm.DB
}

// NewCircular05Repo creates a Circular05Repository.
func NewCircular05Repo(db *gorm.DB) Circular05Repository {
	return &circular05Repo{db: db}
}

// GetConfig returns an inactive default when the row was never saved.
func (r *circular05Repo) GetConfig(ctx context.Context) (*model.Circular05Config, error) {
	var cfg model.Circular05Config
	err := r.db.WithContext(ctx).Where("singleton = ?", true).Limit(1).Find(&cfg).Error
	if err != nil {
		return nil, err
	}
	cfg.Singleton = true
	return &cfg, nil
}

func (r *circular05Repo) SaveConfig(ctx context.Context, cfg *model.Circular05Config) error {
	cfg.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_active":       cfg.IsActive,
				"recipient":       cfg.Recipient,
				"recipient_title": cfg.RecipientTitle,
				"recipient_zone":  cfg.RecipientZone,
				"updated_at":      gorm.Expr("NOW()"),
			}),
		}).
		Create(cfg).Error
}

func (r *circular05Repo) CreateDownload(ctx context.Context, d *model.Circular05Download) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// ListDownloads newest first; an empty schoolID lists every school.
func (r *circular05Repo) ListDownloads(ctx context.Context, schoolID string) ([]model.Circular05Download, error) {
	var out []model.Circular05Download
	q := r.db.WithContext(ctx).Preload("School")
	if schoolID != "" {
		q = q.Where("school_id = ?", schoolID)
	}
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}
