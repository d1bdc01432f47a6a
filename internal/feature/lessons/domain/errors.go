// Package domain defines domain-level errors for the lessons feature.
package domain

import "errors"

// ErrLessonNotFound indicates that no lesson has the requested id.
var ErrLessonNotFound = errors.New("lesson not found")
