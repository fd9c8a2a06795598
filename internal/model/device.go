package model

import "time"

// DeviceSnapshot is a device record persisted from a sync run, with the
// fields the dashboard filters on extracted into columns and the full
// upstream payload kept verbatim.
type DeviceSnapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Location   string    `json:"location"`
	Status     string    `json:"status"`
	PrimaryIP4 string    `json:"primary_ip4"`
	Payload    Record    `json:"payload"`
	SyncedAt   time.Time `json:"synced_at"`
}

// SnapshotFromRecord extracts the column fields from an upstream device
// record. Missing fields extract as empty strings; the record is stored
// regardless so a later schema change upstream does not lose data.
func SnapshotFromRecord(rec Record, syncedAt time.Time) DeviceSnapshot {
	return DeviceSnapshot{
		ID:         rec.ID(),
		Name:       rec.Resolve("name"),
		Role:       rec.Resolve("role"),
		Location:   rec.Resolve("location"),
		Status:     rec.Resolve("status"),
		PrimaryIP4: rec.Resolve("primary_ip4"),
		Payload:    rec,
		SyncedAt:   syncedAt,
	}
}

type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Parent      *LocationRef `json:"parent,omitempty"`
	DisplayPath string       `json:"display_path,omitempty"`
}

type LocationRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Namespace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Stats is the landing-page summary of the inventory.
type Stats struct {
	Devices    int `json:"devices"`
	Locations  int `json:"locations"`
	Namespaces int `json:"namespaces"`
	IPs        int `json:"ip_addresses"`
	Prefixes   int `json:"prefixes"`
}
