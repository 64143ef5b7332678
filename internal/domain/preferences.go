package domain

import (
	"encoding/json"
)

const (
	PrefAlertOnLowStock       = "alertOnLowStock"
	PrefAutoSettleReceivables = "autoSettleReceivables"
)

// Preferences is the process-wide toggle set. Keys other than the two
// recognized ones are carried through encode/decode untouched.
type Preferences struct {
	AlertOnLowStock       bool
	AutoSettleReceivables bool
	Extra                 map[string]json.RawMessage
}

func (p Preferences) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+2)
	for k, v := range p.Extra {
		out[k] = v
	}
	alert, _ := json.Marshal(p.AlertOnLowStock)
	settle, _ := json.Marshal(p.AutoSettleReceivables)
	out[PrefAlertOnLowStock] = alert
	out[PrefAutoSettleReceivables] = settle
	return json.Marshal(out)
}

func (p *Preferences) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var prefs Preferences
	for k, v := range raw {
		switch k {
		case PrefAlertOnLowStock:
			// Non-boolean values are treated as off.
			_ = json.Unmarshal(v, &prefs.AlertOnLowStock)
		case PrefAutoSettleReceivables:
			_ = json.Unmarshal(v, &prefs.AutoSettleReceivables)
		default:
			if prefs.Extra == nil {
				prefs.Extra = make(map[string]json.RawMessage)
			}
			prefs.Extra[k] = v
		}
	}
	*p = prefs
	return nil
}
