package catalogfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"aidengine/internal/eligibility"
	dErrors "aidengine/pkg/domain-errors"
)

type CatalogFileSuite struct {
	suite.Suite
}

func TestCatalogFileSuite(t *testing.T) {
	suite.Run(t, new(CatalogFileSuite))
}

func (s *CatalogFileSuite) TestLoad() {
	catalog, err := Load("testdata/small.yaml")
	s.Require().NoError(err)
	s.Equal(2, catalog.Len())

	passSport, ok := catalog.Program("pass-sport")
	s.Require().True(ok)
	s.True(passSport.RequiresIncomeQuotient)
	s.Equal(eligibility.BoundNearest, passSport.Amount.Below)
	s.Len(passSport.Amount.Brackets, 2)

	commune, ok := catalog.Program("coup-de-pouce")
	s.Require().True(ok)
	s.Equal([]string{"42000", "42100"}, commune.Eligibility.PostalCodes)
	s.True(commune.Amount.Cap.Valid)

	s.Run("loaded catalog drives the engine", func() {
		summary, err := eligibility.NewEngine(catalog).QuickEstimate(eligibility.QuickInput{
			Age:          9,
			ActivityType: eligibility.TypeSport,
			Price:        decimal.NewFromInt(100),
			PostalCode:   "42100",
		})
		s.Require().NoError(err)
		s.Len(summary.Items, 2)
		s.Equal("20.00", summary.ConfirmedTotal.StringFixed(2))
		s.Equal("70.00", summary.PotentialTotal.StringFixed(2))
	})
}

func (s *CatalogFileSuite) TestMissingFile() {
	_, err := Load("testdata/does-not-exist.yaml")
	s.Error(err)
}

func (s *CatalogFileSuite) TestDefaultCatalogSurvivesYAML() {
	raw, err := Marshal(eligibility.DefaultCatalog())
	s.Require().NoError(err)

	parsed, err := Parse(bytes.NewReader(raw))
	s.Require().NoError(err)

	original := eligibility.DefaultCatalog().Programs()
	reloaded := parsed.Programs()
	s.Require().Len(reloaded, len(original))
	for i := range original {
		s.Equal(original[i].ID, reloaded[i].ID)
		s.Equal(original[i].Eligibility, reloaded[i].Eligibility, original[i].ID)
		s.Equal(original[i].Amount.Kind, reloaded[i].Amount.Kind)
		s.True(original[i].Amount.Max(decimal.NewFromInt(150)).Equal(reloaded[i].Amount.Max(decimal.NewFromInt(150))), original[i].ID)
	}
}

func (s *CatalogFileSuite) TestRejectsBadDocuments() {
	cases := map[string]string{
		"unknown key": `
programs:
  - id: x
    name: X
    level: communal
    eligibility: {min_age: 0, max_age: 10, minimum_age: 3}
    amount: {kind: fixed, value: "10"}
`,
		"bad decimal": `
programs:
  - id: x
    name: X
    level: communal
    eligibility: {min_age: 0, max_age: 10}
    amount: {kind: fixed, value: "ten"}
`,
		"invalid program": `
programs:
  - id: x
    name: X
    level: communal
    eligibility: {min_age: 0, max_age: 10}
    amount: {kind: bracket, below: exclude, above: exclude, brackets: [{min: 0, max: 100, amount: "5"}]}
`,
		"empty": ``,
	}
	for name, doc := range cases {
		s.Run(name, func() {
			_, err := Parse(strings.NewReader(doc))
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}
