package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PatchTitleRequest - body cho PATCH /custom-playlists/:id
type PatchTitleRequest struct {
	Title string `json:"title"`
}

// Validate kiểm tra title
func (r PatchTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required,
			validation.By(func(value interface{}) error {
				if strings.TrimSpace(value.(string)) == "" {
					return ErrInvalidTitle
				}
				return nil
			}),
			validation.RuneLength(1, 100),
		),
	)
}
