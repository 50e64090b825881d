package entity

import "time"

// Todo belongs to exactly one user. UserID never changes after creation.
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TodoChanges is a partial update. Nil fields are left untouched.
// ClearDueDate removes the due date and wins over DueDate.
type TodoChanges struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Completed    *bool
}

// Empty reports whether no field is set.
func (c TodoChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.DueDate == nil && !c.ClearDueDate && c.Completed == nil
}

// Apply merges c into t in place.
func (c TodoChanges) Apply(t *Todo) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	switch {
	case c.ClearDueDate:
		t.DueDate = nil
	case c.DueDate != nil:
		d := *c.DueDate
		t.DueDate = &d
	}
	if c.Completed != nil {
		t.Completed = *c.Completed
	}
}
