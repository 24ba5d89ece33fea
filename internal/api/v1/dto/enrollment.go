package dto

type UpdateProgressRequestDTO struct {
	Progress int `json:"progress" minimum:"0" maximum:"100"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status" enum:"active,completed,cancelled"`
}
