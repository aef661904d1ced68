// Package company looks up organizations in the company registry and maps the
// registry records onto the profile used for report synthesis.
package company

import (
	"strings"
)

// Profile is the company identity and attributes a report is built from.
type Profile struct {
	OrganizationNumber string `json:"organizationNumber" validate:"required"`
	Name               string `json:"name" validate:"required"`
	IndustryCode       string `json:"industryCode,omitempty"`
	IndustryLabel      string `json:"industryLabel,omitempty"`
	LegalFormCode      string `json:"legalFormCode,omitempty"`
	LegalForm          string `json:"legalForm,omitempty"`
	Employees          *int   `json:"employees,omitempty"`
	FoundedDate        string `json:"foundedDate,omitempty"`
	RegistrationDate   string `json:"registrationDate,omitempty"`
	VATRegistered      bool   `json:"vatRegistered"`
	Location           string `json:"location,omitempty"`
	Bankrupt           bool   `json:"bankrupt"`
	UnderLiquidation   bool   `json:"underLiquidation"`
}

// Status is a short human readable company status.
func (p Profile) Status() string {
	switch {
	case p.Bankrupt:
		return "Bankrupt"
	case p.UnderLiquidation:
		return "Under liquidation"
	default:
		return "Active"
	}
}

// CodeLabel is a code with its description, as used by the registry.
type CodeLabel struct {
	Code        string `json:"kode"`
	Description string `json:"beskrivelse"`
}

// Address is a registry business address.
type Address struct {
	Country      string   `json:"land,omitempty"`
	CountryCode  string   `json:"landkode,omitempty"`
	PostalCode   string   `json:"postnummer,omitempty"`
	PostalPlace  string   `json:"poststed,omitempty"`
	Lines        []string `json:"adresse,omitempty"`
	Municipality string   `json:"kommune,omitempty"`
	MunicipalNo  string   `json:"kommunenummer,omitempty"`
}

// Entity mirrors a registry unit record.
type Entity struct {
	OrganizationNumber     string     `json:"organisasjonsnummer"`
	Name                   string     `json:"navn"`
	OrganizationForm       *CodeLabel `json:"organisasjonsform,omitempty"`
	RegistrationDate       string     `json:"registreringsdatoEnhetsregisteret,omitempty"`
	VATRegistered          bool       `json:"registrertIMvaregisteret,omitempty"`
	Industry               *CodeLabel `json:"naeringskode1,omitempty"`
	Employees              *int       `json:"antallAnsatte,omitempty"`
	BusinessAddress        *Address   `json:"forretningsadresse,omitempty"`
	FoundedDate            string     `json:"stiftelsesdato,omitempty"`
	SectorCode             *CodeLabel `json:"institusjonellSektorkode,omitempty"`
	InBusinessRegister     bool       `json:"registrertIForetaksregisteret,omitempty"`
	Bankrupt               bool       `json:"konkurs,omitempty"`
	UnderLiquidation       bool       `json:"underAvvikling,omitempty"`
	UnderForcedLiquidation bool       `json:"underTvangsavviklingEllerTvangsopplosning,omitempty"`
	LanguageForm           string     `json:"maalform,omitempty"`
}

// Profile maps the registry record onto a report profile.
func (e Entity) Profile() Profile {
	p := Profile{
		OrganizationNumber: strings.TrimSpace(e.OrganizationNumber),
		Name:               strings.TrimSpace(e.Name),
		Employees:          e.Employees,
		FoundedDate:        e.FoundedDate,
		RegistrationDate:   e.RegistrationDate,
		VATRegistered:      e.VATRegistered,
		Location:           e.BusinessAddress.label(),
		Bankrupt:           e.Bankrupt,
		UnderLiquidation:   e.UnderLiquidation || e.UnderForcedLiquidation,
	}
	if e.Industry != nil {
		p.IndustryCode = strings.TrimSpace(e.Industry.Code)
		p.IndustryLabel = strings.TrimSpace(e.Industry.Description)
	}
	if e.OrganizationForm != nil {
		p.LegalFormCode = strings.TrimSpace(e.OrganizationForm.Code)
		p.LegalForm = strings.TrimSpace(e.OrganizationForm.Description)
	}
	return p
}

// label renders "postal place, municipality", skipping empty parts.
func (a *Address) label() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, part := range []string{a.PostalPlace, a.Municipality} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
