package market

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExternalData is the structured item payload carried opaquely in
// ItemTerms.ItemData. The engine never inspects it; these types exist so the
// RPC surface can accept structured payloads and hand the canonical JSON
// encoding to the engine.
type ExternalData struct {
	Note   string `json:"note"`
	Supply *Items `json:"supply"`
	Demand *Items `json:"demand"`
}

// Items is either a single external item or an and/or combination of nested
// items. Exactly one of Item and Rule is set.
type Items struct {
	Item   *ExternalItem
	Rule   string
	Values []Items
}

const (
	CombinationRuleAnd = "and"
	CombinationRuleOr  = "or"
)

const (
	ItemTypeFiat   = "fiat"
	ItemTypeCrypto = "crypto"
)

// ExternalItem describes a fungible (fiat or crypto) or non-fungible item.
// Fungible items carry a currency code and a hex amount in the currency's
// smallest unit; non-fungible items carry an id and typed properties.
type ExternalItem struct {
	Type string `json:"type"`

	Currency string `json:"currency,omitempty"`
	Value    string `json:"value,omitempty"`
	Network  string `json:"network,omitempty"`
	Address  string `json:"address,omitempty"`

	ID         string                  `json:"id,omitempty"`
	Properties map[string]ItemProperty `json:"properties,omitempty"`
}

// ItemProperty is a typed attribute on a non-fungible item. Data holds the
// utf8 string, "true"/"false", or the hex-encoded number depending on Type.
type ItemProperty struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type itemCombination struct {
	Rule   string            `json:"rule"`
	Values []json.RawMessage `json:"values"`
}

// MarshalJSON implements the json.Marshaler interface.
func (i Items) MarshalJSON() ([]byte, error) {
	if i.Item != nil {
		return json.Marshal(i.Item)
	}
	values := make([]json.RawMessage, 0, len(i.Values))
	for _, v := range i.Values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		values = append(values, raw)
	}
	return json.Marshal(itemCombination{Rule: i.Rule, Values: values})
}

// UnmarshalJSON implements the json.Unmarshaler interface. Combinations are
// distinguished from single items by the presence of a "rule" key.
func (i *Items) UnmarshalJSON(data []byte) error {
	var probe struct {
		Rule string `json:"rule"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Rule == "" {
		item := &ExternalItem{}
		if err := json.Unmarshal(data, item); err != nil {
			return err
		}
		*i = Items{Item: item}
		return nil
	}
	var combo itemCombination
	if err := json.Unmarshal(data, &combo); err != nil {
		return err
	}
	values := make([]Items, len(combo.Values))
	for idx, raw := range combo.Values {
		if err := json.Unmarshal(raw, &values[idx]); err != nil {
			return err
		}
	}
	*i = Items{Rule: combo.Rule, Values: values}
	return nil
}

// Validate checks structural well-formedness of the payload. It does not
// resolve currency or network codes against any registry.
func (d *ExternalData) Validate() error {
	if d == nil {
		return fmt.Errorf("market: external data required")
	}
	if d.Supply == nil && d.Demand == nil {
		return fmt.Errorf("market: external data needs supply or demand")
	}
	if d.Supply != nil {
		if err := d.Supply.validate(); err != nil {
			return fmt.Errorf("market: supply: %w", err)
		}
	}
	if d.Demand != nil {
		if err := d.Demand.validate(); err != nil {
			return fmt.Errorf("market: demand: %w", err)
		}
	}
	return nil
}

func (i *Items) validate() error {
	if i.Item != nil {
		return i.Item.validate()
	}
	if i.Rule != CombinationRuleAnd && i.Rule != CombinationRuleOr {
		return fmt.Errorf("unknown combination rule %q", i.Rule)
	}
	if len(i.Values) == 0 {
		return fmt.Errorf("empty %s combination", i.Rule)
	}
	for idx := range i.Values {
		if err := i.Values[idx].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (it *ExternalItem) validate() error {
	if strings.TrimSpace(it.Type) == "" {
		return fmt.Errorf("item type required")
	}
	switch it.Type {
	case ItemTypeFiat, ItemTypeCrypto:
		if strings.TrimSpace(it.Currency) == "" {
			return fmt.Errorf("%s item needs a currency", it.Type)
		}
		if strings.TrimSpace(it.Value) == "" {
			return fmt.Errorf("%s item needs a value", it.Type)
		}
		if it.Type == ItemTypeCrypto && strings.TrimSpace(it.Network) == "" {
			return fmt.Errorf("crypto item needs a network")
		}
	default:
		// Non-fungible item types are open-ended; an external directory
		// keeps the common ones consistent across clients.
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("%s item needs an id", it.Type)
		}
	}
	return nil
}

// EncodeExternalData validates the payload and returns its canonical JSON
// encoding for use as ItemTerms.ItemData.
func EncodeExternalData(d *ExternalData) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// DecodeExternalData parses an ItemData payload produced by
// EncodeExternalData.
func DecodeExternalData(raw []byte) (*ExternalData, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("market: external data required")
	}
	data := &ExternalData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("market: decode external data: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}
