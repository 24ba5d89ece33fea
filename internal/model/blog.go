package model

import "time"

// BlogPost is a published article.
type BlogPost struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Author    string    `db:"author" json:"author"`
	ImagePath string    `db:"image_path" json:"imagePath"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
