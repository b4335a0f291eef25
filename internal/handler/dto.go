package handler

import (
	"time"

	"github.com/msomdec/microblog/internal/domain"
)

// UserDTO is the JSON representation of a user. The password digest is
// never exposed.
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// StreamDTO is the JSON representation of a stream.
type StreamDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func toStreamDTO(s *domain.Stream) StreamDTO {
	return StreamDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func toStreamDTOs(streams []domain.Stream) []StreamDTO {
	dtos := make([]StreamDTO, len(streams))
	for i := range streams {
		dtos[i] = toStreamDTO(&streams[i])
	}
	return dtos
}

// PostDTO is the JSON representation of a post with its owners inlined.
type PostDTO struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
	StreamID   int64  `json:"streamId"`
	StreamName string `json:"streamName"`
}

func toPostDTO(p *domain.Post) PostDTO {
	return PostDTO{
		ID:         p.ID,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UserID:     p.UserID,
		Username:   p.Username,
		StreamID:   p.StreamID,
		StreamName: p.StreamName,
	}
}

// PageDTO is the JSON representation of one page of results.
type PageDTO[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

func toPostPageDTO(p domain.Page[domain.Post]) PageDTO[PostDTO] {
	content := make([]PostDTO, len(p.Items))
	for i := range p.Items {
		content[i] = toPostDTO(&p.Items[i])
	}
	return PageDTO[PostDTO]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
	}
}

// apiResponse is the {success, message} body of sign up and of user, stream
// and post deletes.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// tokenResponse is the body of a successful sign in.
type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}
