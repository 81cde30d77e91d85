package domain

import "time"

// Member is a registered community member. Passport is the unique key; the
// record is written by self-registration or bulk import and only bulk import
// may update it afterwards.
type Member struct {
	Name         string    `json:"name"`
	Passport     string    `json:"passport"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	RoleLabel    string    `json:"role"`
	FamilySize   int       `json:"family_members"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Assistant is a delegated store-managed identity. The password is stored in
// clear text; the source system never hashed credentials and this port keeps
// that behavior (flagged as a gap, not fixed).
type Assistant struct {
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// Delivery records one in-kind hand-off. Duplicates per passport are allowed;
// the conversation layer warns and asks for re-confirmation instead of the
// store enforcing uniqueness.
type Delivery struct {
	ID          string    `json:"id"`
	Supervisor  string    `json:"supervisor"`
	Passport    string    `json:"passport"`
	MemberName  string    `json:"member_name"`
	DeliveredAt time.Time `json:"delivery_date"`
}

// Service is an offering members can request. Name is the unique key;
// deleting a service cascades to its requests.
type Service struct {
	Name      string    `json:"service_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ServiceRequest links a member passport to a service. At most one request
// may exist per (passport, service name) pair.
type ServiceRequest struct {
	ID          string    `json:"id"`
	Passport    string    `json:"passport"`
	ServiceName string    `json:"service_name"`
	Requester   string    `json:"requester"`
	RequestedAt time.Time `json:"request_date"`
}

// Subscriber is anyone who has ever talked to the bot, keyed by the transport
// chat id. Created lazily on first contact, read-only afterward; broadcast
// fans out over this set.
type Subscriber struct {
	ChatID      string    `json:"chat_id"`
	DisplayName string    `json:"display_name"`
	FirstSeen   time.Time `json:"first_seen"`
}
