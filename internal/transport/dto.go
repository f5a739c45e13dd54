package transport

type SignupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type ProfileUpdateRequest struct {
	Username string `json:"username"`
}

type SendMailRequest struct {
	Addresses []string `json:"addresses"`
}

type GameCreateRequest struct {
	Title    string `json:"title"`
	GameTime string `json:"game_time"`
	Location string `json:"location"`
	BuyIn    int    `json:"buy_in"`
	Host     string `json:"host"`
}

type GameUpdateRequest struct {
	Title    string `json:"title"`
	GameTime string `json:"game_time"`
	Location string `json:"location"`
	BuyIn    int    `json:"buy_in"`
}
