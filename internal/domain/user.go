package domain

// EmailAddress representa una direccion de correo del usuario en el proveedor.
type EmailAddress struct {
	ID           string        `json:"id,omitempty"`
	EmailAddress string        `json:"email_address"`
	Verification *Verification `json:"verification,omitempty"`
}

// Verification describe el estado de verificacion de una direccion.
type Verification struct {
	Status string `json:"status"`
}

// User es la proyeccion del registro de usuario del proveedor de identidad.
// El proveedor es dueno del dato; aca solo se lee por request.
type User struct {
	ID              string         `json:"id"`
	FirstName       string         `json:"first_name,omitempty"`
	LastName        string         `json:"last_name,omitempty"`
	EmailAddresses  []EmailAddress `json:"email_addresses"`
	Banned          bool           `json:"banned"`
	PasswordEnabled bool           `json:"password_enabled"`
	PublicMetadata  map[string]any `json:"public_metadata,omitempty"`
	CreatedAt       int64          `json:"created_at,omitempty"`
	UpdatedAt       int64          `json:"updated_at,omitempty"`
}

// PrimaryEmail devuelve la direccion principal (indice 0 segun el proveedor).
func (u User) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// EmailVerified indica si la direccion principal esta verificada.
func (u User) EmailVerified() bool {
	if len(u.EmailAddresses) == 0 {
		return false
	}
	v := u.EmailAddresses[0].Verification
	return v != nil && v.Status == "verified"
}

// UserSummary es el perfil publico que devuelve el login; nunca incluye
// credenciales ni tokens.
type UserSummary struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// Summary proyecta el registro completo al perfil publico.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:            u.ID,
		Email:         u.PrimaryEmail(),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		EmailVerified: u.EmailVerified(),
	}
}
