package model

type InitialProfileRequest struct{}

type InitialProfileResponse struct {
	Profile
}

type GetMyProfileRequest struct{}

type GetMyProfileResponse struct {
	Profile
}
