package entity

// User is the customer profile returned by the auth endpoints.
type User struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Username      string `json:"username,omitempty"`
	PersonalEmail string `json:"personal_email,omitempty"`
	Country       string `json:"country,omitempty"`
	Address       string `json:"address,omitempty"`
	Role          string `json:"role,omitempty"`
}

// AuthInfo is persisted under the authInfo session key.
type AuthInfo struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	PersonalEmail string `json:"personal_email"`
	Country       string `json:"country"`
	Address       string `json:"address"`
	Password      string `json:"password"`
}
