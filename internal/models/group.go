package models

// Group is a snapshot of a set of members and the expenses they share.
// The calculator treats it as read-only.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Goa Trip", "Flatmates").
	Name string `json:"name"`

	// Members is the ordered roster of the group.
	Members []Member `json:"members"`

	// Expenses are all expenses logged in the group.
	Expenses []Expense `json:"expenses"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Member is a participant in a group. ID is immutable; the display
// attributes may be edited by collaborators.
type Member struct {
	// ID is the stable unique identifier for the member (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Phone is an optional phone number.
	Phone string `json:"phone,omitempty"`

	// PaymentAddress is an optional payment handle such as a UPI ID.
	PaymentAddress string `json:"paymentAddress,omitempty"`
}

// MemberIDs returns the IDs of the roster in order.
func (g Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether id is on the roster.
func (g Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Member looks up a roster member by ID.
func (g Group) Member(id string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
