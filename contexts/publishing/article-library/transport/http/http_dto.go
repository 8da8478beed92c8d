package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AuthorDTO struct {
	AuthorID    string `json:"author_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type TagDTO struct {
	TagID string `json:"tag_id"`
	Name  string `json:"name"`
}

type ArticleDTO struct {
	ArticleID  string   `json:"article_id"`
	Title      string   `json:"title"`
	AuthorID   string   `json:"author_id"`
	AuthorName string   `json:"author_name"`
	Tags       []TagDTO `json:"tags"`
	TagsAsStr  string   `json:"tags_as_str"`
	PubDate    string   `json:"pub_date"`
	Content    string   `json:"content"`
}

type ListArticlesResponse struct {
	Items      []ArticleDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type GetArticleResponse struct {
	Article ArticleDTO `json:"article"`
}

type ListAuthorsResponse struct {
	Items      []AuthorDTO `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type GetAuthorResponse struct {
	Author     AuthorDTO    `json:"author"`
	Articles   []ArticleDTO `json:"articles"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type ListTagsResponse struct {
	Items      []TagDTO `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type ListTagArticlesResponse struct {
	Tag        *TagDTO      `json:"tag,omitempty"`
	Items      []ArticleDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type CreateAuthorRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	IsStaff     bool   `json:"is_staff"`
	Password    string `json:"password"`
}

type UpdateAuthorRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	IsStaff     bool   `json:"is_staff"`
	Password    string `json:"password"`
}

type AdminAuthorDTO struct {
	AuthorDTO
	IsStaff   bool   `json:"is_staff"`
	UpdatedAt string `json:"updated_at"`
}

type AdminListAuthorsResponse struct {
	Items      []AdminAuthorDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type AdminAuthorResponse struct {
	Author AdminAuthorDTO `json:"author"`
}

type TagRequest struct {
	Name string `json:"name"`
}

type TagResponse struct {
	Tag TagDTO `json:"tag"`
}

type ArticleRequest struct {
	Title    string   `json:"title"`
	AuthorID string   `json:"author_id"`
	TagIDs   []string `json:"tag_ids"`
	PubDate  string   `json:"pub_date"`
	Content  string   `json:"content"`
}

// AdminArticleDTO is the admin list row: the public fields plus the
// visibility flag and bookkeeping timestamps.
type AdminArticleDTO struct {
	ArticleDTO
	Published   bool   `json:"published"`
	AnnouncedAt string `json:"announced_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type AdminListArticlesResponse struct {
	Items      []AdminArticleDTO `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

type AdminArticleResponse struct {
	Article  AdminArticleDTO `json:"article"`
	Replayed bool            `json:"replayed,omitempty"`
}
