package models

import (
	"time"
)

type InteractionKind string

const (
	KindLike InteractionKind = "like"
	KindSave InteractionKind = "save"
)

// Interaction 喜欢与收藏共用的字段，(user_id, image_url) 唯一
type Interaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:,unique,composite:user_image" json:"user_id"`
	ImageURL     string    `gorm:"size:500;not null;index:,unique,composite:user_image" json:"image_url"`
	ThumbnailURL string    `gorm:"size:500;not null" json:"thumbnail_url"`
	Source       *string   `gorm:"size:50" json:"source"` // e.g. "safebooru"
	PostID       *int64    `json:"post_id"`               // 上游原始 ID
	CreatedAt    time.Time `json:"created_at"`
}

// AsPost 转成前端画廊能直接使用的结构
func (i Interaction) AsPost() Post {
	return Post{
		ID:         i.PostID,
		PreviewURL: i.ThumbnailURL,
		FileURL:    i.ImageURL,
		Source:     i.Source,
		Tags:       "",
	}
}

type Like struct {
	Interaction
}

type Save struct {
	Interaction
}
