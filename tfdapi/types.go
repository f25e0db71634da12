package tfdapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a catalog identifier. The API sends most IDs as strings but some
// older payloads use bare numbers; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// Not a string or number. Treat as missing so one odd record does
		// not fail the whole catalog.
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

// OptInt is an integer field that may be absent from the payload.
type OptInt struct {
	Value int
	Valid bool
}

func Int(v int) OptInt { return OptInt{Value: v, Valid: true} }

func (o *OptInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = OptInt{}
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	// Absent and unparseable both read as N/A.
	n, err := strconv.Atoi(raw)
	if err != nil {
		*o = OptInt{}
		return nil
	}
	*o = OptInt{Value: n, Valid: true}
	return nil
}

// String renders the value, or "N/A" when absent.
func (o OptInt) String() string {
	if !o.Valid {
		return "N/A"
	}
	return strconv.Itoa(o.Value)
}

// Equal reports whether both values are present and equal.
func (o OptInt) Equal(other OptInt) bool {
	return o.Valid && other.Valid && o.Value == other.Value
}

// StatValue keeps the additional-stat value exactly as the source sent it,
// whether that was a JSON string or a number.
type StatValue string

func (s *StatValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StatValue(str)
		return nil
	}
	*s = StatValue(b)
	return nil
}

// Metadata catalogs.

type DescendantMeta struct {
	ID       ID      `json:"descendant_id"`
	Name     *string `json:"descendant_name"`
	ImageURL string  `json:"descendant_image_url"`
}

func (m DescendantMeta) Key() ID { return m.ID }

type ModuleMeta struct {
	ID         ID           `json:"module_id"`
	Name       *string      `json:"module_name"`
	Type       string       `json:"module_type"`
	Tier       string       `json:"module_tier"`
	SocketType *string      `json:"module_socket_type"`
	Class      string       `json:"module_class"`
	Stats      []ModuleStat `json:"module_stat"`
}

func (m ModuleMeta) Key() ID { return m.ID }

// StatAt returns the stat row for an enchant level. The first matching row
// wins.
func (m ModuleMeta) StatAt(level OptInt) (ModuleStat, bool) {
	for _, s := range m.Stats {
		if s.Level.Equal(level) {
			return s, true
		}
	}
	return ModuleStat{}, false
}

type ModuleStat struct {
	Level    OptInt `json:"level"`
	Capacity OptInt `json:"module_capacity"`
	Value    string `json:"value"`
}

type WeaponMeta struct {
	ID         ID      `json:"weapon_id"`
	Name       *string `json:"weapon_name"`
	Type       *string `json:"weapon_type"`
	Tier       string  `json:"weapon_tier"`
	RoundsType *string `json:"weapon_rounds_type"`
}

func (m WeaponMeta) Key() ID { return m.ID }

type ReactorMeta struct {
	ID                     ID      `json:"reactor_id"`
	Name                   *string `json:"reactor_name"`
	Tier                   string  `json:"reactor_tier"`
	OptimizedConditionType *string `json:"optimized_condition_type"`
}

func (m ReactorMeta) Key() ID { return m.ID }

type ExternalComponentMeta struct {
	ID            ID      `json:"external_component_id"`
	Name          *string `json:"external_component_name"`
	EquipmentType string  `json:"external_component_equipment_type"`
	Tier          string  `json:"external_component_tier"`
}

func (m ExternalComponentMeta) Key() ID { return m.ID }

// Per-player equipment.

type Player struct {
	// Name is the full "name#tag" identity after alias substitution.
	Name string
	OUID string
}

type ouidResponse struct {
	OUID string `json:"ouid"`
}

type AdditionalStat struct {
	Name  string    `json:"additional_stat_name"`
	Value StatValue `json:"additional_stat_value"`
}

type EquippedModule struct {
	SlotID       string `json:"module_slot_id"`
	ID           ID     `json:"module_id"`
	EnchantLevel OptInt `json:"module_enchant_level"`
}

type DescendantInfo struct {
	OUID              string           `json:"ouid"`
	UserName          string           `json:"user_name"`
	DescendantID      ID               `json:"descendant_id"`
	SlotID            string           `json:"descendant_slot_id"`
	Level             OptInt           `json:"descendant_level"`
	ModuleMaxCapacity OptInt           `json:"module_max_capacity"`
	ModuleCapacity    OptInt           `json:"module_capacity"`
	Modules           []EquippedModule `json:"module"`
}

type EquippedWeapon struct {
	SlotID                  string           `json:"weapon_slot_id"`
	ID                      ID               `json:"weapon_id"`
	Level                   OptInt           `json:"weapon_level"`
	PerkAbilityEnchantLevel OptInt           `json:"perk_ability_enchant_level"`
	AdditionalStats         []AdditionalStat `json:"weapon_additional_stat"`
	Modules                 []EquippedModule `json:"module"`
}

type WeaponInfo struct {
	OUID     string           `json:"ouid"`
	UserName string           `json:"user_name"`
	Weapons  []EquippedWeapon `json:"weapon"`
}

type ReactorInfo struct {
	OUID            string           `json:"ouid"`
	UserName        string           `json:"user_name"`
	ID              ID               `json:"reactor_id"`
	SlotID          string           `json:"reactor_slot_id"`
	Level           OptInt           `json:"reactor_level"`
	EnchantLevel    OptInt           `json:"reactor_enchant_level"`
	AdditionalStats []AdditionalStat `json:"reactor_additional_stat"`
}

type EquippedExternalComponent struct {
	SlotID          string           `json:"external_component_slot_id"`
	ID              ID               `json:"external_component_id"`
	Level           OptInt           `json:"external_component_level"`
	AdditionalStats []AdditionalStat `json:"external_component_additional_stat"`
}

type ExternalComponentInfo struct {
	OUID       string                      `json:"ouid"`
	UserName   string                      `json:"user_name"`
	Components []EquippedExternalComponent `json:"external_component"`
}
