//go:build e2e

package estimation

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/goccy/go-json"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers estimation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &estimationSteps{tc: tc, child: map[string]any{}}

	// Context building steps
	ctx.Step(`^a child aged (\d+)$`, steps.childAged)
	ctx.Step(`^living in postal code "([^"]*)"$`, steps.livingIn)
	ctx.Step(`^a "([^"]*)" activity costing (\d+) euros$`, steps.activityCosting)
	ctx.Step(`^the activity takes place during "([^"]*)"$`, steps.activityPeriod)
	ctx.Step(`^the session "([^"]*)"$`, steps.session)
	ctx.Step(`^an income quotient of (\d+)$`, steps.incomeQuotient)

	// Estimation steps
	ctx.Step(`^I request a quick estimate$`, steps.requestQuick)
	ctx.Step(`^I request a full estimate$`, steps.requestFull)
	ctx.Step(`^I fetch the last estimate of session "([^"]*)"$`, steps.fetchLastEstimate)

	// Estimation assertion steps
	ctx.Step(`^"([^"]*)" should be (confirmed|potential) with amount "([^"]*)"$`, steps.aidShouldBe)
	ctx.Step(`^"([^"]*)" should not be listed$`, steps.aidShouldNotBeListed)
	ctx.Step(`^the confirmed total should be "([^"]*)"$`, steps.field("confirmed_total"))
	ctx.Step(`^the remaining price should be "([^"]*)"$`, steps.field("remaining_price"))
	ctx.Step(`^the estimate should be capped$`, steps.shouldBeCapped)
}

type estimationSteps struct {
	tc    TestContext
	child map[string]any
}

type aidItem struct {
	ProgramID string `json:"program_id"`
	Amount    string `json:"amount"`
	Confirmed bool   `json:"confirmed"`
}

type estimate struct {
	Items          []aidItem `json:"items"`
	ConfirmedTotal string    `json:"confirmed_total"`
	RemainingPrice string    `json:"remaining_price"`
	Capped         bool      `json:"capped"`
}

func (s *estimationSteps) childAged(ctx context.Context, age int) error {
	s.child = map[string]any{"age": age}
	return nil
}

func (s *estimationSteps) livingIn(ctx context.Context, postal string) error {
	s.child["postal_code"] = postal
	return nil
}

func (s *estimationSteps) activityCosting(ctx context.Context, activityType string, price int) error {
	s.child["activity_type"] = activityType
	s.child["price"] = price
	return nil
}

func (s *estimationSteps) activityPeriod(ctx context.Context, period string) error {
	s.child["period"] = period
	return nil
}

func (s *estimationSteps) session(ctx context.Context, sessionID string) error {
	s.child["session_id"] = sessionID
	return nil
}

func (s *estimationSteps) incomeQuotient(ctx context.Context, qf int) error {
	s.child["income_quotient"] = qf
	return nil
}

func (s *estimationSteps) requestQuick(ctx context.Context) error {
	body := make(map[string]any, len(s.child))
	for k, v := range s.child {
		if k != "income_quotient" {
			body[k] = v
		}
	}
	return s.tc.POST("/estimates/quick", body)
}

func (s *estimationSteps) requestFull(ctx context.Context) error {
	return s.tc.POST("/estimates/full", s.child)
}

func (s *estimationSteps) fetchLastEstimate(ctx context.Context, sessionID string) error {
	return s.tc.GET("/estimates/sessions/" + sessionID)
}

func (s *estimationSteps) estimate() (*estimate, error) {
	var e estimate
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &e); err != nil {
		return nil, fmt.Errorf("failed to parse estimate: %w (body: %s)", err, string(s.tc.GetLastResponseBody()))
	}
	return &e, nil
}

func (s *estimationSteps) aidShouldBe(ctx context.Context, programID, status, amount string) error {
	e, err := s.estimate()
	if err != nil {
		return err
	}
	for _, it := range e.Items {
		if it.ProgramID != programID {
			continue
		}
		if it.Confirmed != (status == "confirmed") {
			return fmt.Errorf("%s: expected %s, got confirmed=%t", programID, status, it.Confirmed)
		}
		if it.Amount != amount {
			return fmt.Errorf("%s: expected amount %s, got %s", programID, amount, it.Amount)
		}
		return nil
	}
	return fmt.Errorf("%s not found in %s", programID, string(s.tc.GetLastResponseBody()))
}

func (s *estimationSteps) aidShouldNotBeListed(ctx context.Context, programID string) error {
	e, err := s.estimate()
	if err != nil {
		return err
	}
	for _, it := range e.Items {
		if it.ProgramID == programID {
			return fmt.Errorf("%s should not be listed", programID)
		}
	}
	return nil
}

func (s *estimationSteps) field(name string) func(context.Context, string) error {
	return func(ctx context.Context, expected string) error {
		e, err := s.estimate()
		if err != nil {
			return err
		}
		actual := map[string]string{
			"confirmed_total": e.ConfirmedTotal,
			"remaining_price": e.RemainingPrice,
		}[name]
		if actual != expected {
			return fmt.Errorf("expected %s %s, got %s", name, expected, actual)
		}
		return nil
	}
}

func (s *estimationSteps) shouldBeCapped(ctx context.Context) error {
	e, err := s.estimate()
	if err != nil {
		return err
	}
	if !e.Capped {
		return fmt.Errorf("expected a capped estimate: %s", string(s.tc.GetLastResponseBody()))
	}
	return nil
}
