package domain

// ContactInfo is whatever contact detail the parser could pull out of a message.
type ContactInfo struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	PhoneE164 string `json:"phoneE164,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Present reports whether any contact detail (phone, email or name) was found.
func (c *ContactInfo) Present() bool {
	return c != nil && (c.Phone != "" || c.Email != "" || c.Name != "")
}

// ParsedMessage is the screening view of a single inbound message.
type ParsedMessage struct {
	Intent      Intent       `json:"intent"`
	Level       Level        `json:"level,omitempty"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
	Keywords    []string     `json:"keywords"`
	QuickScore  int          `json:"quickScore"`
	Sentiment   Sentiment    `json:"sentiment"`
	Urgency     Urgency      `json:"urgency"`
}
