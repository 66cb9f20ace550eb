package model

import "time"

// Role values stored in users.role.  The first registered user is promoted
// to RoleAdmin by the repository; everyone after that defaults to RoleUser.
const (
    RoleAdmin = "admin"
    RoleUser  = "user"
)

// ValidRole reports whether s is one of the two enumerated roles.
func ValidRole(s string) bool {
    return s == RoleAdmin || s == RoleUser
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags so the password hash never leaks.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display name used to log in.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – "admin" or "user".
//  Bio          – free-form profile text.
//  ProfileImage – filesystem path of the uploaded profile picture ("" when unset).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    Bio          string    // users.bio
    ProfileImage string    // users.profile_image
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
