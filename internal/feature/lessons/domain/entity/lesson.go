// Package entity defines the domain entities for the lessons feature.
package entity

import "time"

// LessonContent is the editable part of a lesson.
// An update always overwrites every one of these fields.
type LessonContent struct {
	Title         string `gorm:"column:lesson_title;size:255;not null"`
	Category      string `gorm:"size:100"`
	EmotionalTone string `gorm:"size:100"`
	Privacy       string `gorm:"size:50"`
	AccessLevel   string `gorm:"size:50"`
	Image         string `gorm:"column:lesson_image;size:1024"`
	Description   string `gorm:"column:lesson_desc;type:text"`
}

// Lesson is a life lesson shared by a user.
type Lesson struct {
	ID string `gorm:"primaryKey;size:36"`

	LessonContent `gorm:"embedded"`

	// CreatedBy is the owner's email. It is not checked against the users table.
	CreatedBy string `gorm:"size:255;not null;index"`

	CreatedAt time.Time `gorm:"index"`

	// LastUpdatedDate is nil until the first update.
	LastUpdatedDate *time.Time
}

// TableName returns the table name for GORM.
func (Lesson) TableName() string {
	return "lessons"
}
