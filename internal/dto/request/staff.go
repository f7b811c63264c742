package request

type CreateStaffRequest struct {
	Email      string  `json:"email" validate:"required,email,max=255"`
	FirstName  string  `json:"first_name" validate:"required,max=20"`
	LastName   string  `json:"last_name" validate:"required,max=20"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=14"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Role       string  `json:"role" validate:"required,oneof=admin manager commandant"`
	BuildingID *string `json:"building_id,omitempty" validate:"omitempty,uuid"`
}
