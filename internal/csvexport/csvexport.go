// Package csvexport turns pending bulk edits into the CSV document the
// import pipeline consumes: a header naming every touched field plus one
// row per edited device, quoted per RFC 4180.
package csvexport

import (
	"sort"
	"strings"

	"netops-cockpit/internal/model"
)

// InterfaceConfig describes the interface the importer should create when
// an edit assigns a primary IPv4 address to a device.
type InterfaceConfig struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type Options struct {
	Interface *InterfaceConfig
	Namespace string
}

// Validate checks an edit set's export preconditions: at least one edit,
// and every entry carrying at least one changed field.
func Validate(edits *model.EditSet) error {
	if edits == nil || edits.Len() == 0 {
		return ErrNoModifications
	}

	for _, item := range edits.Items() {
		if len(item.Fields) == 0 {
			return &EmptyFieldSetError{DeviceID: item.DeviceID}
		}
	}

	return nil
}

// Serialize renders the edit set as a CSV string. Columns are "id", the
// union of edited field names (sorted, id excluded), then the interface
// columns when a primary_ip4 edit exists and an interface config is
// supplied, then ip_namespace when a namespace is also set. Rows follow
// edit insertion order.
func Serialize(edits *model.EditSet, opts Options) (string, error) {
	if edits == nil || edits.Len() == 0 {
		return "", ErrEmptyInput
	}

	fields := collectFields(edits)

	withInterface := opts.Interface != nil && edits.Touches("primary_ip4")
	withNamespace := withInterface && opts.Namespace != ""

	header := append([]string{"id"}, fields...)
	if withInterface {
		header = append(header, "interface_name", "interface_type", "interface_status")
	}
	if withNamespace {
		header = append(header, "ip_namespace")
	}

	lines := make([]string, 0, edits.Len()+1)
	lines = append(lines, joinRow(header))

	for _, item := range edits.Items() {
		row := make([]string, 0, len(header))
		row = append(row, item.DeviceID)
		for _, field := range fields {
			value, ok := item.Fields[field]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, model.ResolveValue(value))
		}
		if withInterface {
			row = append(row, opts.Interface.Name, opts.Interface.Type, opts.Interface.Status)
		}
		if withNamespace {
			row = append(row, opts.Namespace)
		}
		lines = append(lines, joinRow(row))
	}

	return strings.Join(lines, "\n"), nil
}

func collectFields(edits *model.EditSet) []string {
	seen := map[string]struct{}{}
	fields := make([]string, 0)
	for _, item := range edits.Items() {
		for field := range item.Fields {
			if field == "id" {
				continue
			}
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

func joinRow(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeField(v)
	}
	return strings.Join(escaped, ",")
}

// escapeField quotes a value only when it contains a comma, double quote,
// or newline, doubling embedded quotes per RFC 4180.
func escapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
