package model

// User represents an application user record as stored in the `users`
// table. Passwords are never stored in plain text; PasswordHash holds a
// bcrypt digest. There is no self-registration route — users are created
// by the boot seed or by external provisioning, and never deleted by the
// application.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  IsAdmin      – whether the user may mutate tour content.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
	IsAdmin      bool   // users.is_admin
}
