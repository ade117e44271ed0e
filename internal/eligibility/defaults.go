package eligibility

import "sync"

// Departments of the Auvergne-Rhône-Alpes region.
var auraDepartments = []int{1, 3, 7, 15, 26, 38, 42, 43, 63, 69, 73, 74}

// Saint-Étienne postal codes.
var saintEtienneCodes = []string{"42000", "42100"}

const departmentLoire = 42

func ceiling(qf int) *int { return &qf }

// DefaultPrograms is the built-in program list, in display order.
func DefaultPrograms() []AidProgram {
	return []AidProgram{
		{
			ID:    "pass-sport",
			Name:  "Pass'Sport",
			Level: LevelNational,
			Eligibility: Predicate{
				MinAge:        6,
				MaxAge:        17,
				ActivityTypes: []ActivityType{TypeSport},
			},
			Amount: BracketTable(BoundNearest, BoundExclude,
				Band(0, 700, 70),
				Band(700, 1200, 50),
			),
			RequiresIncomeQuotient: true,
			OfficialLink:           "https://www.pass.sports.gouv.fr",
		},
		{
			ID:    "pass-culture",
			Name:  "pass Culture (part collective 15-17 ans)",
			Level: LevelNational,
			Eligibility: Predicate{
				MinAge:        15,
				MaxAge:        17,
				ActivityTypes: []ActivityType{TypeCulture},
			},
			Amount:       Fixed(30),
			OfficialLink: "https://pass.culture.fr",
		},
		{
			ID:    "caf-vacances",
			Name:  "Aide aux vacances enfants (AVE)",
			Level: LevelCAF,
			Eligibility: Predicate{
				MinAge:                 3,
				MaxAge:                 17,
				ActivityTypes:          []ActivityType{TypeVacation},
				Periods:                []Period{PeriodVacation},
				MinDurationDays:        5,
				RequiresCafAllocataire: true,
			},
			Amount: BracketTable(BoundNearest, BoundExclude,
				Band(0, 450, 200),
				Band(450, 700, 150),
				Band(700, 900, 100),
			),
			RequiresIncomeQuotient: true,
			OfficialLink:           "https://www.caf.fr/allocataires/aides-et-demarches/droits-et-prestations/vie-personnelle/les-aides-aux-vacances",
		},
		{
			ID:    "caf-loisirs",
			Name:  "Aide aux temps libres CAF",
			Level: LevelCAF,
			Eligibility: Predicate{
				MinAge:                 3,
				MaxAge:                 17,
				ActivityTypes:          []ActivityType{TypeSport, TypeCulture, TypeLeisure},
				Periods:                []Period{PeriodSchoolTerm},
				RequiresCafAllocataire: true,
			},
			Amount: BracketTable(BoundNearest, BoundExclude,
				Band(0, 450, 60),
				Band(450, 700, 40),
			),
			RequiresIncomeQuotient: true,
			OfficialLink:           "https://www.caf.fr",
		},
		{
			ID:    "pass-region-aura",
			Name:  "Pass'Région Auvergne-Rhône-Alpes",
			Level: LevelRegional,
			Eligibility: Predicate{
				MinAge:          15,
				MaxAge:          18,
				ActivityTypes:   []ActivityType{TypeSport, TypeCulture},
				Departments:     auraDepartments,
				StudentStatuses: []StudentStatus{StudentHighSchool},
			},
			Amount:       Fixed(30),
			OfficialLink: "https://jeunes.auvergnerhonealpes.fr",
		},
		{
			ID:    "loire-sport-college",
			Name:  "Pass sport collégien Loire",
			Level: LevelDepartmental,
			Eligibility: Predicate{
				MinAge:          11,
				MaxAge:          15,
				ActivityTypes:   []ActivityType{TypeSport},
				Departments:     []int{departmentLoire},
				StudentStatuses: []StudentStatus{StudentMiddleSchool},
			},
			Amount:       Fixed(20),
			OfficialLink: "https://www.loire.fr",
		},
		{
			ID:    "saint-etienne-loisirs",
			Name:  "Coup de pouce loisirs Saint-Étienne",
			Level: LevelCommunal,
			Eligibility: Predicate{
				MinAge:        3,
				MaxAge:        17,
				ActivityTypes: []ActivityType{TypeSport, TypeCulture, TypeLeisure},
				PostalCodes:   saintEtienneCodes,
			},
			Amount:       Percentage(20, 40),
			OfficialLink: "https://www.saint-etienne.fr",
		},
		{
			ID:    "caf-inclusion",
			Name:  "Bonus inclusion handicap",
			Level: LevelCAF,
			Eligibility: Predicate{
				MinAge:        0,
				MaxAge:        18,
				RequiredFlags: []SocialFlag{FlagAEEH, FlagAESH},
			},
			Amount:       Percentage(50, 100),
			OfficialLink: "https://www.caf.fr",
		},
		{
			ID:    "loire-rentree-activites",
			Name:  "Aide départementale rentrée activités",
			Level: LevelDepartmental,
			Eligibility: Predicate{
				MinAge:        6,
				MaxAge:        18,
				ActivityTypes: []ActivityType{TypeSport, TypeCulture},
				Departments:   []int{departmentLoire},
				RequiredFlags: []SocialFlag{FlagARS, FlagScholarship},
			},
			Amount:       Fixed(40),
			OfficialLink: "https://www.loire.fr",
		},
		{
			ID:    "colos-apprenantes",
			Name:  "Colos apprenantes",
			Level: LevelNational,
			Eligibility: Predicate{
				MinAge:            3,
				MaxAge:            17,
				ActivityTypes:     []ActivityType{TypeVacation},
				Periods:           []Period{PeriodVacation},
				MaxIncomeQuotient: ceiling(900),
			},
			Amount:                 Percentage(80, 400),
			RequiresIncomeQuotient: true,
			OfficialLink:           "https://www.jeunes.gouv.fr/colos-apprenantes",
		},
		{
			ID:    "loire-ase-vacances",
			Name:  "Départ en vacances enfants confiés (ASE)",
			Level: LevelDepartmental,
			Eligibility: Predicate{
				MinAge:        3,
				MaxAge:        18,
				ActivityTypes: []ActivityType{TypeVacation},
				Departments:   []int{departmentLoire},
				RequiredFlags: []SocialFlag{FlagASE},
			},
			Amount:       Fixed(100),
			OfficialLink: "https://www.loire.fr",
		},
		{
			ID:    "saint-etienne-fratrie",
			Name:  "Réduction fratrie Saint-Étienne",
			Level: LevelCommunal,
			Eligibility: Predicate{
				MinAge:          3,
				MaxAge:          17,
				PostalCodes:     saintEtienneCodes,
				MinSiblingCount: 2,
			},
			Amount:       Fixed(15),
			OfficialLink: "https://www.saint-etienne.fr",
		},
	}
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the built-in catalog, built once per process.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = MustCatalog(DefaultPrograms()...)
	})
	return defaultCatalog
}
