package dto

type BlogPostCreateDTO struct {
	Title     string `json:"title" minLength:"1" maxLength:"300"`
	Content   string `json:"content" minLength:"1"`
	Author    string `json:"author,omitempty"`
	ImagePath string `json:"imagePath,omitempty"`
}

type ContactRequestDTO struct {
	Name    string `json:"name" minLength:"1" maxLength:"200"`
	Email   string `json:"email" format:"email"`
	Message string `json:"message" minLength:"1" maxLength:"5000"`
}
