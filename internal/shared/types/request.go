package types

// AddTabRequest creates or opens a tab
type AddTabRequest struct {
	Label    string `json:"label"`
	Route    string `json:"route" binding:"required"`
	Icon     string `json:"icon,omitempty"`
	Closable *bool  `json:"closable,omitempty"`
}

// UpdateTabRequest relabels or reroutes a tab. Empty fields are kept.
type UpdateTabRequest struct {
	Label string `json:"label,omitempty"`
	Route string `json:"route,omitempty"`
}

// NavigateRequest moves a workspace to a route
type NavigateRequest struct {
	Route string `json:"route" binding:"required"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes
const (
	CodeInvalidRequest   = "invalid_request"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeNotClosable      = "not_closable"
	CodeNotFound         = "not_found"
	CodeDuplicateRoute   = "duplicate_route"
	CodePinnedRoute      = "pinned_route"
	CodeInternal         = "internal"
)
