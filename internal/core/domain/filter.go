package domain

// Column names shared by every SQL-backed repository.
const (
	ColumnContactID = "contact_id"
	ColumnName      = "name"
	ColumnEmail     = "email"
	ColumnPhone     = "phone"
)

// Predicate is one equality constraint on a contact.
// Column and Value let SQL repositories push the constraint into a WHERE clause;
// Match evaluates the same constraint against a loaded contact.
type Predicate struct {
	Column string
	Value  any
	Match  func(*Contact) bool
}

// ContactFilter is a conjunction of predicates. An empty filter matches everything.
type ContactFilter []Predicate

// Matches reports whether c satisfies every predicate in f.
func (f ContactFilter) Matches(c *Contact) bool {
	for _, p := range f {
		if !p.Match(c) {
			return false
		}
	}
	return true
}

// ContactIDEquals matches contacts with the given identity.
func ContactIDEquals(id int) Predicate {
	return Predicate{Column: ColumnContactID, Value: id, Match: func(c *Contact) bool { return c.ContactID == id }}
}

// NameEquals matches contacts whose name is exactly name.
func NameEquals(name string) Predicate {
	return Predicate{Column: ColumnName, Value: name, Match: func(c *Contact) bool { return c.Name == name }}
}

// EmailEquals matches contacts whose email is exactly email.
func EmailEquals(email string) Predicate {
	return Predicate{Column: ColumnEmail, Value: email, Match: func(c *Contact) bool { return c.Email == email }}
}

// PhoneEquals matches contacts whose phone is exactly phone.
func PhoneEquals(phone string) Predicate {
	return Predicate{Column: ColumnPhone, Value: phone, Match: func(c *Contact) bool { return c.Phone == phone }}
}
