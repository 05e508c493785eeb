package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
}

func (u User) ToResponse(employeeID string) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		EmployeeID: employeeID,
	}
}
