package models

// Credential is a stored account for one environment.
//
// Password at rest is either a cryptox blob or, for records created before
// encryption was introduced, the raw plaintext. The decrypted value is never
// written back to storage.
type Credential struct {
	// Id is a globally unique identifier.
	Id string

	// EnvId references the owning Environment. It is a weak reference:
	// referential integrity is enforced by the service layer, which
	// cascades environment deletes to credentials.
	EnvId string

	Username string
	Account  string
	Password string
}
