package dto

// UserListRequest defines filters for the admin user listing.
type UserListRequest struct {
	Page     int
	PageSize int
	Search   string
}

// UserCreateRequest carries the admin user-creation payload.
type UserCreateRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   uint   `json:"role_id" validate:"required,oneof=1 2 3"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserUpdateRequest carries a partial admin user update. Nil fields are untouched.
type UserUpdateRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	RoleID   *uint   `json:"role_id" validate:"omitempty,oneof=1 2 3"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserListResponse wraps a paginated user listing.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// ProfileUpdateRequest carries a self-service profile update.
type ProfileUpdateRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

// ChangePasswordRequest carries a self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}
