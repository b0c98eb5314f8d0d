package users

import "strconv"

// Record is a user as served by the remote API. Unknown server fields are dropped.
type Record struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Patch is a partial update. Nil fields are left untouched when applied.
type Patch struct {
	ID        *int    `json:"id,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// ListResponse is the body of GET /users.
type ListResponse struct {
	Users []Record `json:"users"`
	Total int      `json:"total"`
	Skip  int      `json:"skip"`
	Limit int      `json:"limit"`
}

// Apply returns r with every non-nil field of p overriding it.
func (p Patch) Apply(r Record) Record {
	if p.ID != nil {
		r.ID = *p.ID
	}
	if p.FirstName != nil {
		r.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		r.LastName = *p.LastName
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	return r
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.ID == nil && p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// Field returns the string form of the named column, as used for filtering and sorting.
func (r Record) Field(name string) string {
	switch name {
	case "id":
		return strconv.Itoa(r.ID)
	case "firstName":
		return r.FirstName
	case "lastName":
		return r.LastName
	case "email":
		return r.Email
	default:
		return ""
	}
}

// FullName joins first and last name for display.
func (r Record) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}
