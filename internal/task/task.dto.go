package task

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrEmptyTask = errors.New("task is required")

var validate = validator.New()

type CreateTaskRequest struct {
	Task      string `json:"task" validate:"required"`
	Completed bool   `json:"completed"`
}

func (r *CreateTaskRequest) Normalize() error {
	r.Task = strings.TrimSpace(r.Task)
	if err := validate.Struct(r); err != nil {
		return ErrEmptyTask
	}
	return nil
}

// UpdateTaskRequest uses pointers so an omitted field keeps its stored value.
type UpdateTaskRequest struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (r *UpdateTaskRequest) Apply(t *Task) error {
	if r.Task != nil {
		text := strings.TrimSpace(*r.Task)
		if text == "" {
			return ErrEmptyTask
		}
		t.Task = text
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	return nil
}
