package nautobot

import (
	"context"

	"netops-cockpit/internal/model"
)

const deviceFields = `
    id
    name
    role {
      name
    }
    location {
      name
    }
    primary_ip4 {
      address
    }
    status {
      name
    }
    device_type {
      model
    }
    tags {
      name
    }
    cf_last_backup`

const devicesQuery = `
query devices {
  devices {` + deviceFields + `
  }
}`

const devicesByNameQuery = `
query devices_by_name($name_filter: [String]) {
  devices(name__ire: $name_filter) {` + deviceFields + `
  }
}`

const devicesByLocationQuery = `
query devices_by_location($location_filter: [String]) {
  locations(name__ire: $location_filter) {
    devices {` + deviceFields + `
    }
  }
}`

const locationsQuery = `
query locations {
  locations {
    id
    name
    description
    parent {
      id
      name
    }
  }
}`

const namespacesQuery = `
query {
  namespaces {
    id
    name
    description
  }
}`

const statsQuery = `
query stats {
  devices {
    id
  }
  locations {
    id
  }
  namespaces {
    id
  }
  ip_addresses {
    id
  }
  prefixes {
    id
  }
}`

// DeviceQuery narrows the device pull server-side. Name and Location are
// case-insensitive regex filters, matching the upstream __ire lookups.
type DeviceQuery struct {
	Name     string
	Location string
}

func (c *Client) Devices(ctx context.Context, q DeviceQuery) ([]model.Record, error) {
	switch {
	case q.Name != "":
		var data struct {
			Devices []model.Record `json:"devices"`
		}
		vars := map[string]any{"name_filter": []string{q.Name}}
		if err := c.GraphQL(ctx, devicesByNameQuery, vars, &data); err != nil {
			return nil, err
		}
		return data.Devices, nil

	case q.Location != "":
		var data struct {
			Locations []struct {
				Devices []model.Record `json:"devices"`
			} `json:"locations"`
		}
		vars := map[string]any{"location_filter": []string{q.Location}}
		if err := c.GraphQL(ctx, devicesByLocationQuery, vars, &data); err != nil {
			return nil, err
		}
		devices := make([]model.Record, 0)
		for _, loc := range data.Locations {
			devices = append(devices, loc.Devices...)
		}
		return devices, nil

	default:
		var data struct {
			Devices []model.Record `json:"devices"`
		}
		if err := c.GraphQL(ctx, devicesQuery, nil, &data); err != nil {
			return nil, err
		}
		return data.Devices, nil
	}
}

func (c *Client) Locations(ctx context.Context) ([]model.Location, error) {
	var data struct {
		Locations []model.Location `json:"locations"`
	}
	if err := c.GraphQL(ctx, locationsQuery, nil, &data); err != nil {
		return nil, err
	}
	return data.Locations, nil
}

func (c *Client) Namespaces(ctx context.Context) ([]model.Namespace, error) {
	var data struct {
		Namespaces []model.Namespace `json:"namespaces"`
	}
	if err := c.GraphQL(ctx, namespacesQuery, nil, &data); err != nil {
		return nil, err
	}
	return data.Namespaces, nil
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var data struct {
		Devices     []struct{} `json:"devices"`
		Locations   []struct{} `json:"locations"`
		Namespaces  []struct{} `json:"namespaces"`
		IPAddresses []struct{} `json:"ip_addresses"`
		Prefixes    []struct{} `json:"prefixes"`
	}
	if err := c.GraphQL(ctx, statsQuery, nil, &data); err != nil {
		return model.Stats{}, err
	}

	return model.Stats{
		Devices:    len(data.Devices),
		Locations:  len(data.Locations),
		Namespaces: len(data.Namespaces),
		IPs:        len(data.IPAddresses),
		Prefixes:   len(data.Prefixes),
	}, nil
}
