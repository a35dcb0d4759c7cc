package config

import (
	"fmt"

	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/maintenance"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// ToSession builds the session described by the configuration. The first
// maintenance item's unit becomes the default unit of the list; without items
// the session starts from maintenance.DefaultList.
func (c *Configuration) ToSession() (*session.Session, error) {
	var list *maintenance.List
	if len(c.Analysis.Maintenance) > 0 {
		list = maintenance.NewList(c.Analysis.Maintenance[0].Unit)
		for _, item := range c.MaintenanceItems() {
			list.AppendItem(item.Name, item.Cost)
		}
	}

	s, err := session.New(c.Analysis.Parameters, units.ExchangeRate{USDToCNY: c.Analysis.ExchangeRate}, list)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	return s, nil
}

// FromSnapshot converts a session snapshot back into a configuration block,
// keeping the logging and output settings of c.
func (c *Configuration) FromSnapshot(snap session.Snapshot) *Configuration {
	out := &Configuration{Logging: c.Logging, Output: c.Output}
	out.Analysis.Parameters = snap.Parameters
	out.Analysis.ExchangeRate = snap.ExchangeRate.USDToCNY
	for _, item := range snap.Maintenance {
		out.Analysis.Maintenance = append(out.Analysis.Maintenance, MaintenanceItem{
			Name: item.Name,
			Cost: item.Cost.Amount,
			Unit: item.Cost.Unit,
		})
	}
	return out
}
