//go:build e2e

package e2e

import (
	"github.com/cucumber/godog"

	"aidengine/e2e/steps/common"
	"aidengine/e2e/steps/estimation"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	estimation.RegisterSteps(ctx, tc)
}
