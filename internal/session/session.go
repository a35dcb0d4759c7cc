package session

import (
	"github.com/iwvelando/turbine-invest/pkg/maintenance"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// Session is the explicit state of one interactive analysis. It is passed to
// every operation instead of living in package-level state, and it is not
// safe for concurrent use.
type Session struct {
	params      Parameters
	rate        units.ExchangeRate
	maintenance *maintenance.List
}

// Snapshot is an immutable copy of a Session taken when an analysis runs.
type Snapshot struct {
	Parameters   Parameters         `json:"parameters"`
	ExchangeRate units.ExchangeRate `json:"exchangeRate"`
	Maintenance  []maintenance.Item `json:"maintenance"`
}

// New creates a session holding its own copy of list. A nil list starts from
// maintenance.DefaultList.
func New(params Parameters, rate units.ExchangeRate, list *maintenance.List) (*Session, error) {
	params.Normalize()
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	if list == nil {
		list = maintenance.DefaultList()
	} else {
		list = list.Clone()
	}
	return &Session{params: params.clone(), rate: rate, maintenance: list}, nil
}

// Default creates a session with default parameters, the given rate and the
// default maintenance list.
func Default(rate units.ExchangeRate) (*Session, error) {
	return New(DefaultParameters(), rate, nil)
}

// Parameters returns a copy of the current parameters.
func (s *Session) Parameters() Parameters {
	return s.params.clone()
}

// SetParameters replaces the scalar parameters. Incomplete physical inputs
// are accepted here and rejected when an analysis runs; only unit keys are
// checked immediately, with aliases resolved to their keys.
func (s *Session) SetParameters(p Parameters) error {
	p.Normalize()
	if err := p.ResolveUnits(); err != nil {
		return err
	}
	s.params = p.clone()
	return nil
}

// ExchangeRate returns the session exchange rate.
func (s *Session) ExchangeRate() units.ExchangeRate {
	return s.rate
}

// SetExchangeRate replaces the session exchange rate.
func (s *Session) SetExchangeRate(rate units.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	s.rate = rate
	return nil
}

// Maintenance returns the live maintenance list. Mutations through it take
// effect immediately.
func (s *Session) Maintenance() *maintenance.List {
	return s.maintenance
}

// Snapshot copies the session state for one analysis pass.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Parameters:   s.params.clone(),
		ExchangeRate: s.rate,
		Maintenance:  s.maintenance.Items(),
	}
}

func (p Parameters) clone() Parameters {
	out := p
	out.Labor.Roles = append([]LaborRole(nil), p.Labor.Roles...)
	return out
}
