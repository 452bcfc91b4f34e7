package models

// Post 归一化后的帖子，不落库
type Post struct {
	ID         *int64  `json:"id"`
	PreviewURL string  `json:"preview_url"`
	FileURL    string  `json:"file_url"`
	Tags       string  `json:"tags"`
	Width      *int64  `json:"width,omitempty"`
	Height     *int64  `json:"height,omitempty"`
	Source     *string `json:"source,omitempty"` // 仅收藏/喜欢列表会填充
}
