package billing

// Client is the party an invoice bills. Immutable after creation.
type Client struct {
	Name     string
	Address  string
	Location string
}

// NewClient builds a client record.
func NewClient(name, address, location string) *Client {
	return &Client{
		Name:     name,
		Address:  address,
		Location: location,
	}
}
