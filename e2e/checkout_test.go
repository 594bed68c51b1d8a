//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"github.com/swaglabs/swagcheck/internal/scenario"
)

// TestCheckoutStandardUser
// Feature: Checkout
//
//	Scenario: Standard user buys the bike light
//	  Given I have the bike light in my cart as "standard_user"
//	  When I check out with generated customer details
//	  Then the overview should show SauceCard payment and Pony Express shipping
//	  And the totals should read $9.99 + $0.80 tax = $10.79
func TestCheckoutStandardUser(t *testing.T) {
	item := fixtures.BikeLight()

	// Given I have the bike light in my cart as "standard_user"
	ctx, session := openSession(t)
	if err := session.LoginAs(ctx, fixtures.Standard()); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := session.AddToCart(ctx, item); err != nil {
		t.Fatalf("Cart flow failed: %v", err)
	}

	// When I check out with generated customer details
	// Then the overview should show SauceCard payment and Pony Express shipping
	// And the totals should read $9.99 + $0.80 tax = $10.79
	if err := session.Checkout(ctx, item); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	summary, err := session.CheckoutPage.ReadSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total.String() != "$10.79" {
		t.Errorf("Expected total $10.79, got %s", summary.Total)
	}
}

// TestCheckoutPerformanceGlitchUser
// Feature: Checkout
//
//	Scenario: Performance glitch user completes checkout with a longer timeout
//	  Given the browser waits up to 60 seconds for each element
//	  And I have the bike light in my cart as "performance_glitch_user"
//	  When I check out with generated customer details
//	  Then the overview totals should match the cart
func TestCheckoutPerformanceGlitchUser(t *testing.T) {
	item := fixtures.BikeLight()
	glitch, err := fixtures.Invalid(fixtures.PerformanceGlitchIndex)
	if err != nil {
		t.Fatal(err)
	}

	// Given the browser waits up to 60 seconds for each element
	ctx, session := openSession(t)
	session.Driver.SetTimeout(scenario.GlitchTimeout)
	if got := session.Driver.Timeout(); got != 60*time.Second {
		t.Fatalf("Expected 60s timeout, got %v", got)
	}

	// And I have the bike light in my cart as "performance_glitch_user"
	if err := session.LoginAs(ctx, glitch); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := session.AddToCart(ctx, item); err != nil {
		t.Fatalf("Cart flow failed: %v", err)
	}

	// When I check out with generated customer details
	// Then the overview totals should match the cart
	if err := session.Checkout(ctx, item); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
}

// TestCatalogRun
// Feature: Scenario runner
//
//	Scenario: The whole catalog passes against the storefront
//	  Given a runner with one retry
//	  When I run every scenario two at a time
//	  Then no scenario should fail
func TestCatalogRun(t *testing.T) {
	// Given a runner with one retry
	runner := &scenario.Runner{
		Launcher:            launcher,
		Perf:                perfLog,
		Browser:             "chromium",
		Retries:             1,
		Parallel:            2,
		Timeout:             90 * time.Second,
		ArtifactsDir:        t.TempDir(),
		ScreenshotOnFailure: true,
	}

	// When I run every scenario two at a time
	report, err := runner.Run(context.Background(), scenario.Catalog())
	if err != nil {
		t.Fatal(err)
	}

	// Then no scenario should fail
	for _, res := range report.Results {
		if res.IsFailed() {
			t.Errorf("%s failed: %s (%s)", res.Scenario, res.Failure, res.Artifact)
		}
	}
}
