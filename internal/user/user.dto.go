package user

type CreateUserRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=80"`
	Headline    string `json:"headline" validate:"max=160"`
	Bio         string `json:"bio" validate:"max=2000"`
	Location    string `json:"location" validate:"max=120"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
}

// UpdateProfileRequest only touches fields that are present.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,min=2,max=80"`
	Headline    *string `json:"headline,omitempty" validate:"omitempty,max=160"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=120"`
	Timezone    *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	AvatarURL   *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

type ListFilter struct {
	Query  string
	Limit  int
	Offset int
}
