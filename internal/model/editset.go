package model

import (
	"encoding/json"
	"time"
)

// EditSet holds pending bulk edits: one sparse field map per device, in the
// order the devices were first edited. Upserting an already-edited device
// replaces its partial wholesale and keeps its position.
type EditSet struct {
	ID        string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time

	order []string
	items map[string]map[string]any
}

type EditItem struct {
	DeviceID string         `json:"device_id"`
	Fields   map[string]any `json:"fields"`
}

func NewEditSet(id string, owner string, createdAt time.Time) *EditSet {
	return &EditSet{
		ID:        id,
		Owner:     owner,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		items:     map[string]map[string]any{},
	}
}

func (s *EditSet) Upsert(deviceID string, fields map[string]any) {
	if _, exists := s.items[deviceID]; !exists {
		s.order = append(s.order, deviceID)
	}
	s.items[deviceID] = fields
}

func (s *EditSet) Remove(deviceID string) bool {
	if _, exists := s.items[deviceID]; !exists {
		return false
	}
	delete(s.items, deviceID)
	for i, id := range s.order {
		if id == deviceID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *EditSet) Clear() {
	s.order = nil
	s.items = map[string]map[string]any{}
}

func (s *EditSet) Len() int {
	return len(s.order)
}

// DeviceIDs returns the edited device ids in insertion order.
func (s *EditSet) DeviceIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Fields returns the pending partial for a device, or nil if none.
func (s *EditSet) Fields(deviceID string) map[string]any {
	return s.items[deviceID]
}

// Items returns the edits in insertion order.
func (s *EditSet) Items() []EditItem {
	out := make([]EditItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, EditItem{DeviceID: id, Fields: s.items[id]})
	}
	return out
}

// Touches reports whether any pending partial contains the given field.
func (s *EditSet) Touches(field string) bool {
	for _, fields := range s.items {
		if _, ok := fields[field]; ok {
			return true
		}
	}
	return false
}

type editSetJSON struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []EditItem `json:"items"`
}

func (s *EditSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(editSetJSON{
		ID:        s.ID,
		Owner:     s.Owner,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Items:     s.Items(),
	})
}

func (s *EditSet) UnmarshalJSON(data []byte) error {
	var raw editSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = raw.ID
	s.Owner = raw.Owner
	s.CreatedAt = raw.CreatedAt
	s.UpdatedAt = raw.UpdatedAt
	s.order = nil
	s.items = map[string]map[string]any{}
	for _, item := range raw.Items {
		s.Upsert(item.DeviceID, item.Fields)
	}
	return nil
}
