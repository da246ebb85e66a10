package public

import "github.com/Dhanush032/Smart-Shopping/internal/provider"

// Handler serves the storefront and shopper APIs.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
