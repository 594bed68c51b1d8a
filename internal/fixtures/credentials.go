package fixtures

import "fmt"

// Role tags the behavior a storefront account is known to exhibit
type Role int

// Account roles
const (
	RoleStandard Role = iota
	RoleWrongPassword
	RoleLockedOut
	RolePerformanceGlitch
	RoleProblem
	RoleError
	RoleVisual
)

// DefaultPassword is shared by every account the storefront accepts
const DefaultPassword = "secret_sauce"

// Login error banners rendered by the storefront
const (
	LockedOutMessage        = "Epic sadface: Sorry, this user has been locked out."
	CredentialMismatch      = "Epic sadface: Username and password do not match any user in this service"
	UsernameRequiredMessage = "Epic sadface: Username is required"
	PasswordRequiredMessage = "Epic sadface: Password is required"
)

// Positions in InvalidLogins. Scenarios address credentials by index, so the
// order of that table is part of its contract.
const (
	WrongPasswordIndex = iota
	LockedOutIndex
	PerformanceGlitchIndex
	ProblemIndex
	ErrorIndex
	VisualIndex
)

// Credential is a username/password pair tagged with the account's role
type Credential struct {
	Username string
	Password string
	Role     Role
}

// ValidLogins holds accounts that log in without any anomaly
var ValidLogins = []Credential{
	{Username: "standard_user", Password: DefaultPassword, Role: RoleStandard},
}

// InvalidLogins holds accounts that are rejected or misbehave after login
var InvalidLogins = []Credential{
	{Username: "random_user", Password: "wrong_password", Role: RoleWrongPassword},
	{Username: "locked_out_user", Password: DefaultPassword, Role: RoleLockedOut},
	{Username: "performance_glitch_user", Password: DefaultPassword, Role: RolePerformanceGlitch},
	{Username: "problem_user", Password: DefaultPassword, Role: RoleProblem},
	{Username: "error_user", Password: DefaultPassword, Role: RoleError},
	{Username: "visual_user", Password: DefaultPassword, Role: RoleVisual},
}

var roleNames = map[Role]string{
	RoleStandard:          "standard",
	RoleWrongPassword:     "wrong-password",
	RoleLockedOut:         "locked-out",
	RolePerformanceGlitch: "performance-glitch",
	RoleProblem:           "problem",
	RoleError:             "error",
	RoleVisual:            "visual",
}

var roleLabels = map[Role]string{
	RoleStandard:          "Standard User",
	RoleWrongPassword:     "Unknown User",
	RoleLockedOut:         "Locked Out User",
	RolePerformanceGlitch: "Performance Glitch User",
	RoleProblem:           "Problem User",
	RoleError:             "Error User",
	RoleVisual:            "Visual User",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Label returns the human readable name used in logs and timing records
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return r.String()
}

// Rejected reports whether the storefront refuses to log this role in
func (r Role) Rejected() bool {
	return r == RoleWrongPassword || r == RoleLockedOut
}

// RejectionMessage returns the banner text expected after a refused login.
// The second value is false for roles that log in successfully.
func (c Credential) RejectionMessage() (string, bool) {
	if !c.Role.Rejected() {
		return "", false
	}
	if c.Role == RoleLockedOut {
		return LockedOutMessage, true
	}
	return CredentialMismatch, true
}

// Invalid returns the credential at the given InvalidLogins position
func Invalid(index int) (Credential, error) {
	if index < 0 || index >= len(InvalidLogins) {
		return Credential{}, fmt.Errorf("no invalid login at index %d", index)
	}
	return InvalidLogins[index], nil
}

// Standard returns the first valid login
func Standard() Credential {
	return ValidLogins[0]
}

// ByUsername returns the credential registered for username
func ByUsername(username string) (Credential, bool) {
	for _, c := range ValidLogins {
		if c.Username == username {
			return c, true
		}
	}
	for _, c := range InvalidLogins {
		if c.Username == username {
			return c, true
		}
	}
	return Credential{}, false
}

// Authenticate applies the storefront's login rules and returns the error
// banner for a refused attempt. Every real account shares DefaultPassword;
// the wrong-password fixture is not an account.
func Authenticate(username, password string) (string, bool) {
	switch {
	case username == "":
		return UsernameRequiredMessage, false
	case password == "":
		return PasswordRequiredMessage, false
	}

	cred, ok := ByUsername(username)
	if !ok || cred.Role == RoleWrongPassword || password != DefaultPassword {
		return CredentialMismatch, false
	}
	if cred.Role == RoleLockedOut {
		return LockedOutMessage, false
	}
	return "", true
}
