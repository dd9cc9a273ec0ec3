package entity

// ContactMessage is a support request from the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	SkypeID string `json:"skype_id"`
	Message string `json:"message"`
}

// Country is an entry of the static country list used by the signup and contact forms.
type Country struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}
