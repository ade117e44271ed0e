package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/catalogfile"
	"aidengine/internal/eligibility/handler"
)

// activityFlags are shared by quick and visibility.
type activityFlags struct {
	age          int
	activityType string
	categories   []string
	postal       string
	period       string
}

func (f *activityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.age, "age", -1, "child age in years")
	cmd.Flags().StringVar(&f.activityType, "type", "", "activity type: sport, culture, vacation or leisure")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "free-text categories, classified when --type is absent")
	cmd.Flags().StringVar(&f.postal, "postal", "", "5-digit postal code")
	cmd.Flags().StringVar(&f.period, "period", "", "school_term or vacation")
}

func (f *activityFlags) resolvedType() eligibility.ActivityType {
	if t := strings.ToLower(strings.TrimSpace(f.activityType)); t != "" {
		return eligibility.ActivityType(t)
	}
	if len(f.categories) > 0 {
		return eligibility.ClassifyCategories(f.categories)
	}
	return ""
}

func (a *app) quickCmd() *cobra.Command {
	var (
		flags    activityFlags
		price    string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Estimate aid without the family's income quotient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid --price %q: %w", price, err)
			}
			summary, err := engine.QuickEstimate(eligibility.QuickInput{
				Age:          flags.age,
				ActivityType: flags.resolvedType(),
				Price:        amount,
				PostalCode:   flags.postal,
				Period:       eligibility.Period(flags.period),
				DurationDays: duration,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handler.NewEstimateResponse(summary))
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&price, "price", "", "activity price in euros")
	cmd.Flags().IntVar(&duration, "duration", 0, "activity duration in days, 0 when unknown")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

// contextFile is the YAML shape read by full and explain.
type contextFile struct {
	Age            int      `yaml:"age"`
	IncomeQuotient *int     `yaml:"income_quotient"`
	PostalCode     string   `yaml:"postal_code"`
	Price          string   `yaml:"price"`
	ActivityType   string   `yaml:"activity_type"`
	Categories     []string `yaml:"categories"`
	Period         string   `yaml:"period"`
	DurationDays   int      `yaml:"duration_days"`
	SocialFlags    []string `yaml:"social_flags"`
	SiblingCount   int      `yaml:"sibling_count"`
	StudentStatus  string   `yaml:"student_status"`
	CafAllocataire *bool    `yaml:"caf_allocataire"`
}

func readContext(path string) (eligibility.EvaluationContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return eligibility.EvaluationContext{}, fmt.Errorf("read context file: %w", err)
	}
	var file contextFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return eligibility.EvaluationContext{}, fmt.Errorf("parse context file: %w", err)
	}
	return file.toContext()
}

func (f contextFile) toContext() (eligibility.EvaluationContext, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return eligibility.EvaluationContext{}, fmt.Errorf("invalid price %q: %w", f.Price, err)
	}
	activityType := eligibility.ActivityType(strings.ToLower(f.ActivityType))
	if activityType == "" && len(f.Categories) > 0 {
		activityType = eligibility.ClassifyCategories(f.Categories)
	}
	ctx := eligibility.EvaluationContext{
		Age:            f.Age,
		IncomeQuotient: f.IncomeQuotient,
		PostalCode:     f.PostalCode,
		Price:          price,
		ActivityType:   activityType,
		Period:         eligibility.Period(f.Period),
		DurationDays:   f.DurationDays,
		SiblingCount:   f.SiblingCount,
		StudentStatus:  eligibility.StudentStatus(f.StudentStatus),
		CafAllocataire: f.CafAllocataire,
	}
	for _, flag := range f.SocialFlags {
		ctx.SocialFlags = append(ctx.SocialFlags, eligibility.SocialFlag(strings.ToLower(flag)))
	}
	return ctx, nil
}

func (a *app) fullCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "full",
		Short: "Estimate aid from a complete family context file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			evalCtx, err := readContext(file)
			if err != nil {
				return err
			}
			summary, err := engine.FullEstimate(evalCtx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handler.NewEstimateResponse(summary))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML evaluation context")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type explanation struct {
	ProgramID string `json:"program_id"`
	Status    string `json:"status"`
	Amount    string `json:"amount,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (a *app) explainCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show the verdict of every program for a context file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			evalCtx, err := readContext(file)
			if err != nil {
				return err
			}
			evaluations, err := engine.Explain(evalCtx)
			if err != nil {
				return err
			}
			out := make([]explanation, 0, len(evaluations))
			for _, ev := range evaluations {
				e := explanation{
					ProgramID: ev.Program.ID,
					Status:    string(ev.Status),
					Reason:    string(ev.Reason),
				}
				if ev.Status != eligibility.MatchExcluded {
					e.Amount = ev.Amount.StringFixed(2)
				}
				out = append(out, e)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML evaluation context")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) visibilityCmd() *cobra.Command {
	var flags activityFlags

	cmd := &cobra.Command{
		Use:   "visibility",
		Short: "List the optional form fields worth asking for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			q := eligibility.VisibilityQuery{
				ActivityType: flags.resolvedType(),
				Period:       eligibility.Period(flags.period),
			}
			if cmd.Flags().Changed("age") {
				age := flags.age
				q.Age = &age
			}
			if cmd.Flags().Changed("postal") {
				q = q.WithPostalCode(flags.postal)
			}
			return printJSON(cmd.OutOrStdout(), handler.NewVisibilityResponse(engine.FieldsToAsk(q)))
		},
	}

	flags.bind(cmd)
	return cmd
}

func (a *app) catalogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the program catalog as YAML",
		Long:  "Print the program catalog as YAML. With --file, the file is validated and echoed back in canonical form.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				catalog *eligibility.Catalog
				err     error
			)
			if file != "" {
				catalog, err = catalogfile.Load(file)
			} else {
				catalog, err = a.catalog()
			}
			if err != nil {
				return err
			}
			data, err := catalogfile.Marshal(catalog)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file to validate and print")
	return cmd
}

func bandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bands",
		Short: "List the income quotient bands offered to families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), handler.NewIncomeBandsResponse(eligibility.IncomeQuotientBands()))
		},
	}
}
