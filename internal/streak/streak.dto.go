package streak

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidRequest = errors.New("name and description are required")

var validate = validator.New()

type CreateStreakRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (r *CreateStreakRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if err := validate.Struct(r); err != nil {
		return ErrInvalidRequest
	}
	return nil
}

// UpdateStreakRequest edits the descriptive fields only. Empty fields keep
// their stored value.
type UpdateStreakRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (r *UpdateStreakRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

type StreakResponse struct {
	*Streak
	CompletedToday bool `json:"completedToday"`
}
