package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/swaglabs/swagcheck/internal/fixtures"
)

// Scenario groups
const (
	GroupLogin    = "login"
	GroupCart     = "cart"
	GroupCheckout = "checkout"
)

// GlitchTimeout is the driver timeout for checkout as the performance
// glitch account
const GlitchTimeout = 60 * time.Second

// Scenario is one independent journey. Run starts on a session whose login
// page has already loaded.
type Scenario struct {
	Name        string
	Group       string
	Description string
	// Timeout, when set, replaces the driver's default wait timeout and
	// extends the scenario budget to at least this long
	Timeout time.Duration
	Run     func(ctx context.Context, s *Session) error
}

// Catalog returns every scenario in a stable order
func Catalog() []Scenario {
	return []Scenario{
		{
			Name:        "login/valid-user",
			Group:       GroupLogin,
			Description: "Should login successfully with valid user credentials",
			Run: func(ctx context.Context, s *Session) error {
				return s.LoginAs(ctx, fixtures.Standard())
			},
		},
		rejectedLogin("login/locked-out-user", `Should fail to login with user "locked_out_user"`, fixtures.LockedOutIndex),
		rejectedLogin("login/incorrect-credentials", "Should fail to login with incorrect user credentials", fixtures.WrongPasswordIndex),
		acceptedLogin("login/performance-glitch-user", `Should login with user "performance_glitch_user"`, fixtures.PerformanceGlitchIndex),
		{
			Name:        "login/problem-user",
			Group:       GroupLogin,
			Description: `Should login with user "problem_user"`,
			Run: func(ctx context.Context, s *Session) error {
				cred := mustInvalid(fixtures.ProblemIndex)
				if err := s.LoginAs(ctx, cred); err != nil {
					return err
				}
				return s.LoginPage.ValidateLoginSuccess(ctx)
			},
		},
		acceptedLogin("login/error-user", `Should login with user "error_user"`, fixtures.ErrorIndex),
		acceptedLogin("login/visual-user", `Should login with user "visual_user"`, fixtures.VisualIndex),
		{
			Name:        "cart/standard-user",
			Group:       GroupCart,
			Description: "Standard User - Product Selection and Validation",
			Run: func(ctx context.Context, s *Session) error {
				if err := s.LoginAs(ctx, fixtures.Standard()); err != nil {
					return err
				}
				return s.AddToCart(ctx, fixtures.BikeLight())
			},
		},
		{
			Name:        "cart/performance-glitch-user",
			Group:       GroupCart,
			Description: "Performance Glitch User - Product Selection and Compare Performance",
			Run: func(ctx context.Context, s *Session) error {
				cred := mustInvalid(fixtures.PerformanceGlitchIndex)
				if err := s.LoginAs(ctx, cred); err != nil {
					return err
				}
				_, err := s.TimedAddToCart(ctx, cred, fixtures.BikeLight())
				return err
			},
		},
		checkout("checkout/standard-user", `Should complete checkout with user "standard_user"`, fixtures.Standard(), 0),
		checkout("checkout/performance-glitch-user", `Should complete checkout with user "performance_glitch_user"`,
			mustInvalid(fixtures.PerformanceGlitchIndex), GlitchTimeout),
	}
}

func rejectedLogin(name, description string, index int) Scenario {
	return Scenario{
		Name:        name,
		Group:       GroupLogin,
		Description: description,
		Run: func(ctx context.Context, s *Session) error {
			cred := mustInvalid(index)
			want, ok := cred.RejectionMessage()
			if !ok {
				return fmt.Errorf("%s is not a rejected account", cred.Username)
			}
			return s.ExpectLoginRejected(ctx, cred, want)
		},
	}
}

func acceptedLogin(name, description string, index int) Scenario {
	return Scenario{
		Name:        name,
		Group:       GroupLogin,
		Description: description,
		Run: func(ctx context.Context, s *Session) error {
			return s.LoginAs(ctx, mustInvalid(index))
		},
	}
}

func checkout(name, description string, cred fixtures.Credential, timeout time.Duration) Scenario {
	return Scenario{
		Name:        name,
		Group:       GroupCheckout,
		Description: description,
		Timeout:     timeout,
		Run: func(ctx context.Context, s *Session) error {
			item := fixtures.BikeLight()
			if err := s.LoginAs(ctx, cred); err != nil {
				return err
			}
			if err := s.AddToCart(ctx, item); err != nil {
				return err
			}
			return s.Checkout(ctx, item)
		},
	}
}

// mustInvalid reads the InvalidLogins table by its fixed positions
func mustInvalid(index int) fixtures.Credential {
	cred, err := fixtures.Invalid(index)
	if err != nil {
		panic(err)
	}
	return cred
}

// Select keeps the scenarios whose name or group matches one of filters.
// A filter matches a group exactly or a name by prefix. No filters keeps
// everything.
func Select(scenarios []Scenario, filters []string) []Scenario {
	if len(filters) == 0 {
		return scenarios
	}

	var selected []Scenario
	for _, sc := range scenarios {
		for _, f := range filters {
			if sc.Group == f || strings.HasPrefix(sc.Name, f) {
				selected = append(selected, sc)
				break
			}
		}
	}
	return selected
}
