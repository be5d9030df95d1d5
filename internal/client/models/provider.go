package models

import "encoding/json"

// Provider is one care-team directory entry. Read-only, cached per visit.
type Provider struct {
	ID        int64
	Name      string
	Specialty string
	ThreadID  int64
}

// providerWire resolves the backend's id aliases: thread_id before
// conversation_id for the thread identifier.
type providerWire struct {
	ID             FlexID `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Specialty      string `json:"specialty"`
	ThreadID       FlexID `json:"thread_id"`
	ConversationID FlexID `json:"conversation_id"`
}

func (p *Provider) UnmarshalJSON(data []byte) error {
	var w providerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ID = w.ID.Int64()
	p.Name = firstNonEmpty(w.Name, w.DisplayName)
	p.Specialty = w.Specialty
	p.ThreadID = w.ThreadID.Int64()
	if p.ThreadID == 0 {
		p.ThreadID = w.ConversationID.Int64()
	}
	return nil
}

// Thread returns the identifier used to address this provider's message
// thread. When the directory record carries no usable thread id, the
// provider id doubles as the thread id; malformed upstream data must not
// make messaging unreachable.
func (p Provider) Thread() int64 {
	if p.ThreadID != 0 {
		return p.ThreadID
	}
	return p.ID
}
