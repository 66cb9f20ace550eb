package model

// Category groups articles under a unique name.  Categories have no
// owner; only admins may change or remove them.
type Category struct {
    ID          uint64 // categories.id
    Name        string // categories.name (unique)
    Description string // categories.description
}
