package model

import (
	"fmt"
	"time"
)

// Level is the difficulty band of a course.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

// ParseLevel returns the Level matching s exactly.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return l, nil
	}
	return "", fmt.Errorf("unknown course level %q", s)
}

// Course is a catalog entry. Prices are whole currency units.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	PriceUSD    int64     `db:"price_usd" json:"priceUsd"`
	PriceINR    int64     `db:"price_inr" json:"priceInr"`
	Level       Level     `db:"level" json:"level"`
	Duration    string    `db:"duration" json:"duration"`
	ImagePath   string    `db:"image_path" json:"imagePath"`
	Featured    bool      `db:"featured" json:"featured"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// IsFree reports whether the course can be enrolled in without payment.
func (c Course) IsFree() bool {
	return c.PriceUSD == 0
}

// ContentType is the kind of a course content item.
type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentArticle ContentType = "article"
	ContentLab     ContentType = "lab"
	ContentQuiz    ContentType = "quiz"
)

// ParseContentType returns the ContentType matching s.
func ParseContentType(s string) (ContentType, error) {
	switch t := ContentType(s); t {
	case ContentVideo, ContentArticle, ContentLab, ContentQuiz:
		return t, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// CourseContent is one ordered item of a course's material.
type CourseContent struct {
	ID       int64       `db:"id" json:"id"`
	CourseID int64       `db:"course_id" json:"courseId"`
	Title    string      `db:"title" json:"title"`
	Type     ContentType `db:"content_type" json:"type"`
	Body     string      `db:"body" json:"body"`
	Position int         `db:"position" json:"position"`
}
