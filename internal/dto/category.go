package dto

// CategoryPayload is the validated shape of a category entity.
type CategoryPayload struct {
	Name       string  `json:"name" validate:"required"`
	Type       string  `json:"type" validate:"required,oneof=income expense"`
	ParentID   *string `json:"parentId"`
	Color      string  `json:"color"`
	Icon       string  `json:"icon"`
	IsArchived bool    `json:"isArchived"`
}
