package models

import (
	"encoding/json"
	"time"
)

// ChemicalUsage records one chemical consumed by an experiment.
type ChemicalUsage struct {
	ChemicalID   string  `json:"chemical_id"`
	QuantityUsed float64 `json:"quantity_used"`
	Unit         string  `json:"unit"`
}

// Experiment is a single journal entry describing a lab run.
type Experiment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	Title       string    `json:"title" gorm:"index"`
	Date        time.Time `json:"date" gorm:"index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Procedure   string    `json:"procedure,omitempty" gorm:"type:text"`
	// ChemicalsUsed, EquipmentUsed and ExternalLinks are JSON columns,
	// read through their accessor methods.
	ChemicalsUsed string `json:"-" gorm:"type:text"`
	EquipmentUsed string `json:"-" gorm:"type:text"`
	ExternalLinks string `json:"-" gorm:"type:text"`
	Observations  string `json:"observations,omitempty" gorm:"type:text"`
	Results       string `json:"results,omitempty" gorm:"type:text"`
	Conclusions   string `json:"conclusions,omitempty" gorm:"type:text"`
	CreatedBy     string `json:"created_by" gorm:"index"` // User UUID

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChemicalUsageList decodes the chemicals-used column.
func (e *Experiment) ChemicalUsageList() []ChemicalUsage {
	var usages []ChemicalUsage
	if e.ChemicalsUsed == "" || json.Unmarshal([]byte(e.ChemicalsUsed), &usages) != nil {
		return []ChemicalUsage{}
	}
	return usages
}

// SetChemicalUsage encodes and stores the chemicals-used list.
func (e *Experiment) SetChemicalUsage(usages []ChemicalUsage) error {
	return setJSONList(&e.ChemicalsUsed, usages)
}

// EquipmentList decodes the equipment-used column.
func (e *Experiment) EquipmentList() []string {
	return stringList(e.EquipmentUsed)
}

// SetEquipment encodes and stores the equipment list.
func (e *Experiment) SetEquipment(items []string) error {
	return setJSONList(&e.EquipmentUsed, items)
}

// LinkList decodes the external-links column.
func (e *Experiment) LinkList() []string {
	return stringList(e.ExternalLinks)
}

// SetLinks encodes and stores the external link list.
func (e *Experiment) SetLinks(links []string) error {
	return setJSONList(&e.ExternalLinks, links)
}

// MarshalJSON inlines the decoded list columns for API clients.
func (e Experiment) MarshalJSON() ([]byte, error) {
	type alias Experiment
	return json.Marshal(struct {
		alias
		ChemicalsUsed []ChemicalUsage `json:"chemicals_used"`
		EquipmentUsed []string        `json:"equipment_used"`
		ExternalLinks []string        `json:"external_links"`
	}{alias(e), e.ChemicalUsageList(), e.EquipmentList(), e.LinkList()})
}

func stringList(raw string) []string {
	var items []string
	if raw == "" || json.Unmarshal([]byte(raw), &items) != nil {
		return []string{}
	}
	return items
}

func setJSONList[T any](dst *string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	*dst = string(data)
	return nil
}
