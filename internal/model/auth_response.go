package model

// UserResponse struct holds the response data for login or registration
type UserResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// SetAccessToken sets the access token in the UserResponse
func (r *UserResponse) SetAccessToken(accessToken string) {
	r.AccessToken = accessToken
}
