// Package dto defines data transfer objects for the lessons feature's HTTP transport layer.
package dto

import (
	"time"

	"lessons_backend/internal/feature/lessons/domain/entity"
)

// LessonBody holds the editable lesson fields other than the title.
type LessonBody struct {
	Category      string `json:"category"`
	EmotionalTone string `json:"emotionalTone"`
	Privacy       string `json:"privacy"`
	AccessLevel   string `json:"accessLevel"`
	LessonImage   string `json:"lessonImage"`
	LessonDesc    string `json:"lessonDesc"`
}

func (b LessonBody) content(title string) entity.LessonContent {
	return entity.LessonContent{
		Title:         title,
		Category:      b.Category,
		EmotionalTone: b.EmotionalTone,
		Privacy:       b.Privacy,
		AccessLevel:   b.AccessLevel,
		Image:         b.LessonImage,
		Description:   b.LessonDesc,
	}
}

// LessonFields is the full editable field set. No field is required, so an
// update can overwrite any of them with a zero value.
type LessonFields struct {
	LessonTitle string `json:"lessonTitle"`
	LessonBody
}

// Content converts the request fields to the domain representation.
func (f LessonFields) Content() entity.LessonContent {
	return f.content(f.LessonTitle)
}

// CreateLessonReq represents the request body for POST /lessons.
// A new lesson needs a title and an owner email.
type CreateLessonReq struct {
	LessonTitle string `json:"lessonTitle" binding:"required"`
	LessonBody
	CreatedBy string `json:"createdBy" binding:"required,email"`
}

// Content converts the request fields to the domain representation.
func (r CreateLessonReq) Content() entity.LessonContent {
	return r.content(r.LessonTitle)
}

// UpdateLessonReq represents the request body for PATCH /lessons/:id.
// Owner and timestamps are not part of it, so they cannot be overwritten.
type UpdateLessonReq struct {
	LessonFields
}

// LessonRes is the JSON representation of a lesson.
type LessonRes struct {
	ID string `json:"id"`
	LessonFields
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastUpdatedDate *time.Time `json:"lastUpdatedDate,omitempty"`
}

// DeleteRes reports the number of removed lessons (0 or 1).
type DeleteRes struct {
	DeletedCount int64 `json:"deletedCount"`
}

// NewLessonRes converts a lesson entity to its response shape.
func NewLessonRes(l entity.Lesson) LessonRes {
	return LessonRes{
		ID: l.ID,
		LessonFields: LessonFields{
			LessonTitle: l.Title,
			LessonBody: LessonBody{
				Category:      l.Category,
				EmotionalTone: l.EmotionalTone,
				Privacy:       l.Privacy,
				AccessLevel:   l.AccessLevel,
				LessonImage:   l.Image,
				LessonDesc:    l.Description,
			},
		},
		CreatedBy:       l.CreatedBy,
		CreatedAt:       l.CreatedAt,
		LastUpdatedDate: l.LastUpdatedDate,
	}
}
