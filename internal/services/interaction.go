package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tuukari/smotrelka34/internal/models"

	"gorm.io/gorm"
)

// ToggleInput 喜欢/收藏请求携带的元数据，删除时只用 ImageURL 查找
type ToggleInput struct {
	ImageURL     string
	ThumbnailURL string
	Source       *string
	PostID       *int64
}

// InteractionService 喜欢与收藏的开关存储
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// Toggle 不存在则创建，存在则删除；返回切换后的状态
func (s *InteractionService) Toggle(ctx context.Context, kind models.InteractionKind, userID uint, in ToggleInput) (bool, error) {
	if in.ImageURL == "" {
		return false, ErrMissingImageURL
	}
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var active bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Interaction
		err := tx.Table(table).
			Where("user_id = ? AND image_url = ?", userID, in.ImageURL).
			Take(&existing).Error
		switch {
		case err == nil:
			// 已存在，删除
			if err := tx.Table(table).Where("id = ?", existing.ID).Delete(&models.Interaction{}).Error; err != nil {
				return fmt.Errorf("delete %s: %w", kind, err)
			}
			active = false
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := models.Interaction{
				UserID:       userID,
				ImageURL:     in.ImageURL,
				ThumbnailURL: in.ThumbnailURL,
				Source:       in.Source,
				PostID:       in.PostID,
			}
			if err := tx.Table(table).Create(&row).Error; err != nil {
				return fmt.Errorf("create %s: %w", kind, err)
			}
			active = true
			return nil
		default:
			return fmt.Errorf("lookup %s: %w", kind, err)
		}
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发请求已写入同一 (user, image)，结果即为已开启
		return true, nil
	}
	return active, err
}

// List 按插入顺序倒序返回，即最新的在前
func (s *InteractionService) List(ctx context.Context, kind models.InteractionKind, userID uint) ([]models.Post, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var rows []models.Interaction
	if err := s.db.WithContext(ctx).Table(table).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	posts := make([]models.Post, len(rows))
	for i, row := range rows {
		posts[len(rows)-1-i] = row.AsPost()
	}
	return posts, nil
}

func tableFor(kind models.InteractionKind) (string, error) {
	switch kind {
	case models.KindLike:
		return "likes", nil
	case models.KindSave:
		return "saves", nil
	}
	return "", ErrUnknownKind
}
