package db

// Database is the interface the dispatch engine and the API consume. The
// engine only needs a small slice of it (reading incidents and appending
// events); the API uses the rest for provider and recipient management.
type Database interface {
	// basic db management operations
	Close()
	Reset() error
	// provider methods
	Provider(id string) (*Provider, error)
	Providers() ([]*Provider, error)
	SetProvider(*Provider) (string, error)
	DelProvider(id string) error
	// recipient methods
	Recipient(id string) (*Recipient, error)
	RecipientsByProvider(providerID string) ([]*Recipient, error)
	SetRecipient(*Recipient) (string, error)
	DelRecipient(id string) error
	// incident methods
	Incident(id string) (*Incident, error)
	SetIncident(*Incident) (string, error)
	SetIncidentStatus(id string, status IncidentStatus) error
	// event methods
	Event(id string) (*Event, error)
	EventsByIncident(incidentID string) ([]*Event, error)
	AddEvent(*Event) (string, error)
}
