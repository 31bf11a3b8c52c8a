// Package screen holds the values exchanged between screens: immutable route
// parameters and transient notices.
package screen

import "github.com/mrops-br/financial-products/internal/domain"

// ListRoute opens the product list.
type ListRoute struct{}

// CreateRoute opens an empty registration form.
type CreateRoute struct{}

// DetailRoute opens the detail of Product. The product is copied in, so later
// changes on the caller's side do not leak into the screen.
type DetailRoute struct {
	Product domain.Product
}

// EditRoute opens the edit form seeded with Product.
type EditRoute struct {
	Product domain.Product
}

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient message for the user, such as an alert after a
// delete.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

func Success(msg string) *Notice {
	return &Notice{Level: LevelSuccess, Title: "Éxito", Message: msg}
}

func Failure(msg string) *Notice {
	return &Notice{Level: LevelError, Title: "Error", Message: msg}
}
