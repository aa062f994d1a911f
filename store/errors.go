package store

import "fmt"

type (
	UserNotFound struct {
		ID    int64
		Email string
	}

	TaskNotFound struct {
		ID int64
	}

	TokenNotFound struct{}

	EmailTaken struct {
		Email string
	}

	SchemaMismatch struct {
		Table  string
		Reason string
	}
)

func (u UserNotFound) Error() string {
	if u.Email != "" {
		return fmt.Sprintf("user with email %v not found", u.Email)
	}
	return fmt.Sprintf("user %v not found", u.ID)
}

func (t TaskNotFound) Error() string {
	return fmt.Sprintf("task %v not found", t.ID)
}

func (TokenNotFound) Error() string {
	return "token not found"
}

func (e EmailTaken) Error() string {
	return fmt.Sprintf("email %v is already registered", e.Email)
}

func (s SchemaMismatch) Error() string {
	return fmt.Sprintf("table %v does not match the expected schema: %v", s.Table, s.Reason)
}
