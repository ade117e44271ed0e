// Package catalogfile reads and writes aid catalogs as YAML documents, so the
// program list can be maintained outside the binary.
package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"aidengine/internal/eligibility"
	dErrors "aidengine/pkg/domain-errors"
)

// Document is the YAML layout of a catalog file.
type Document struct {
	Programs []Program `yaml:"programs"`
}

type Program struct {
	ID                     string    `yaml:"id"`
	Name                   string    `yaml:"name"`
	Level                  string    `yaml:"level"`
	OfficialLink           string    `yaml:"official_link,omitempty"`
	RequiresIncomeQuotient bool      `yaml:"requires_income_quotient,omitempty"`
	Eligibility            Predicate `yaml:"eligibility"`
	Amount                 Amount    `yaml:"amount"`
}

type Predicate struct {
	MinAge                 int      `yaml:"min_age"`
	MaxAge                 int      `yaml:"max_age"`
	ActivityTypes          []string `yaml:"activity_types,omitempty"`
	Periods                []string `yaml:"periods,omitempty"`
	Departments            []int    `yaml:"departments,omitempty,flow"`
	PostalCodes            []string `yaml:"postal_codes,omitempty,flow"`
	RequiredFlags          []string `yaml:"required_flags,omitempty"`
	StudentStatuses        []string `yaml:"student_statuses,omitempty"`
	MaxIncomeQuotient      *int     `yaml:"max_income_quotient,omitempty"`
	MinSiblingCount        int      `yaml:"min_sibling_count,omitempty"`
	MinDurationDays        int      `yaml:"min_duration_days,omitempty"`
	RequiresCafAllocataire bool     `yaml:"requires_caf_allocataire,omitempty"`
}

// Amount holds money as strings so no float ever touches a euro value.
type Amount struct {
	Kind     string    `yaml:"kind"`
	Value    string    `yaml:"value,omitempty"`
	Percent  string    `yaml:"percent,omitempty"`
	Cap      string    `yaml:"cap,omitempty"`
	Below    string    `yaml:"below,omitempty"`
	Above    string    `yaml:"above,omitempty"`
	Brackets []Bracket `yaml:"brackets,omitempty"`
}

type Bracket struct {
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	Amount string `yaml:"amount"`
}

// Load reads and validates the catalog stored at path.
func Load(path string) (*eligibility.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML catalog. Unknown keys are rejected so a typo in a
// field name cannot silently drop a clause.
func Parse(r io.Reader) (*eligibility.Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dErrors.New(dErrors.CodeValidation, "catalog file is empty")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "decode catalog: "+err.Error())
	}
	programs, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return eligibility.NewCatalog(programs...)
}

// Marshal renders a catalog as a YAML document that Parse accepts.
func Marshal(catalog *eligibility.Catalog) ([]byte, error) {
	doc := FromCatalog(catalog)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// FromCatalog converts a catalog to its document form.
func FromCatalog(catalog *eligibility.Catalog) Document {
	programs := catalog.Programs()
	doc := Document{Programs: make([]Program, 0, len(programs))}
	for _, p := range programs {
		doc.Programs = append(doc.Programs, fromProgram(p))
	}
	return doc
}

func (d Document) toDomain() ([]eligibility.AidProgram, error) {
	out := make([]eligibility.AidProgram, 0, len(d.Programs))
	for i, p := range d.Programs {
		program, err := p.toDomain()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("program #%d (%s): %v", i+1, p.ID, err))
		}
		out = append(out, program)
	}
	return out, nil
}

func (p Program) toDomain() (eligibility.AidProgram, error) {
	amount, err := p.Amount.toDomain()
	if err != nil {
		return eligibility.AidProgram{}, err
	}
	pred := p.Eligibility
	program := eligibility.AidProgram{
		ID:                     p.ID,
		Name:                   p.Name,
		Level:                  eligibility.TerritoryLevel(p.Level),
		OfficialLink:           p.OfficialLink,
		RequiresIncomeQuotient: p.RequiresIncomeQuotient,
		Amount:                 amount,
		Eligibility: eligibility.Predicate{
			MinAge:                 pred.MinAge,
			MaxAge:                 pred.MaxAge,
			ActivityTypes:          convert[eligibility.ActivityType](pred.ActivityTypes),
			Periods:                convert[eligibility.Period](pred.Periods),
			Departments:            pred.Departments,
			PostalCodes:            pred.PostalCodes,
			RequiredFlags:          convert[eligibility.SocialFlag](pred.RequiredFlags),
			StudentStatuses:        convert[eligibility.StudentStatus](pred.StudentStatuses),
			MaxIncomeQuotient:      pred.MaxIncomeQuotient,
			MinSiblingCount:        pred.MinSiblingCount,
			MinDurationDays:        pred.MinDurationDays,
			RequiresCafAllocataire: pred.RequiresCafAllocataire,
		},
	}
	return program, nil
}

func (a Amount) toDomain() (eligibility.AmountRule, error) {
	rule := eligibility.AmountRule{
		Kind:  eligibility.AmountKind(a.Kind),
		Below: eligibility.BoundPolicy(a.Below),
		Above: eligibility.BoundPolicy(a.Above),
	}
	var err error
	if rule.Value, err = money(a.Value, "value"); err != nil {
		return rule, err
	}
	if rule.Percent, err = money(a.Percent, "percent"); err != nil {
		return rule, err
	}
	if a.Cap != "" {
		capAmount, err := money(a.Cap, "cap")
		if err != nil {
			return rule, err
		}
		rule.Cap = decimal.NewNullDecimal(capAmount)
	}
	for _, b := range a.Brackets {
		amount, err := money(b.Amount, "bracket amount")
		if err != nil {
			return rule, err
		}
		rule.Brackets = append(rule.Brackets, eligibility.Bracket{Min: b.Min, Max: b.Max, Amount: amount})
	}
	return rule, nil
}

func money(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, dErrors.Newf(dErrors.CodeValidation, "%s %q is not a decimal number", field, s)
	}
	return d, nil
}

func fromProgram(p eligibility.AidProgram) Program {
	pred := p.Eligibility
	return Program{
		ID:                     p.ID,
		Name:                   p.Name,
		Level:                  string(p.Level),
		OfficialLink:           p.OfficialLink,
		RequiresIncomeQuotient: p.RequiresIncomeQuotient,
		Eligibility: Predicate{
			MinAge:                 pred.MinAge,
			MaxAge:                 pred.MaxAge,
			ActivityTypes:          strs(pred.ActivityTypes),
			Periods:                strs(pred.Periods),
			Departments:            pred.Departments,
			PostalCodes:            pred.PostalCodes,
			RequiredFlags:          strs(pred.RequiredFlags),
			StudentStatuses:        strs(pred.StudentStatuses),
			MaxIncomeQuotient:      pred.MaxIncomeQuotient,
			MinSiblingCount:        pred.MinSiblingCount,
			MinDurationDays:        pred.MinDurationDays,
			RequiresCafAllocataire: pred.RequiresCafAllocataire,
		},
		Amount: fromAmount(p.Amount),
	}
}

func fromAmount(r eligibility.AmountRule) Amount {
	a := Amount{Kind: string(r.Kind)}
	switch r.Kind {
	case eligibility.AmountFixed:
		a.Value = r.Value.String()
	case eligibility.AmountPercentage:
		a.Percent = r.Percent.String()
		if r.Cap.Valid {
			a.Cap = r.Cap.Decimal.String()
		}
	case eligibility.AmountBracket:
		a.Below, a.Above = string(r.Below), string(r.Above)
		for _, b := range r.Brackets {
			a.Brackets = append(a.Brackets, Bracket{Min: b.Min, Max: b.Max, Amount: b.Amount.String()})
		}
	}
	return a
}

func convert[T ~string](in []string) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	for i, s := range in {
		out[i] = T(s)
	}
	return out
}

func strs[T ~string](in []T) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
