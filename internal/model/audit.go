package model

type AuditActor struct {
	Name string `json:"name,omitempty"`
	IP   string `json:"ip,omitempty"`
}

type AuditEntry struct {
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Status     string     `json:"status"`
	Resource   string     `json:"resource,omitempty"`
	Detail     any        `json:"detail,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditQuery struct {
	Action   string
	Status   string
	Resource string
	From     string
	To       string
	Page     int
	Limit    int
}
