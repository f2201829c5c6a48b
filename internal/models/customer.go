package models

// Customer is derived by folding orders from every connected platform.
// It is never stored independently; Email (lower-cased) is the identity key.
type Customer struct {
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
}

// AddPlatform appends p to the customer's platform set if not present.
func (c *Customer) AddPlatform(p Platform) {
	for _, existing := range c.Platforms {
		if existing == string(p) {
			return
		}
	}
	c.Platforms = append(c.Platforms, string(p))
}
