package domain

import "testing"

func TestCanAccessTicket(t *testing.T) {
	ticket := &Ticket{ID: "t1", CustomerID: "cust-1"}

	cases := []struct {
		name   string
		actor  *User
		ticket *Ticket
		want   bool
	}{
		{"admin any ticket", &User{ID: "a1", Role: RoleAdmin}, ticket, true},
		{"agent any ticket", &User{ID: "a2", Role: RoleAgent}, ticket, true},
		{"customer own ticket", &User{ID: "cust-1", Role: RoleCustomer}, ticket, true},
		{"customer foreign ticket", &User{ID: "cust-2", Role: RoleCustomer}, ticket, false},
		{"unknown role", &User{ID: "cust-1", Role: Role("superuser")}, ticket, false},
		{"nil actor", nil, ticket, false},
		{"nil ticket", &User{ID: "a1", Role: RoleAdmin}, nil, false},
	}

	for _, tt := range cases {
		if got := CanAccessTicket(tt.actor, tt.ticket); got != tt.want {
			t.Errorf("%s: CanAccessTicket=%v, want %v", tt.name, got, tt.want)
		}
	}
}
