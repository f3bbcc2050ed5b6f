// Package gate implements the admin gate: a plain comparison between a submitted password and a configured
// secret.
//
// The gate is a convenience, not a security boundary. The secret is visible to anyone who can read the
// configuration of the process performing the comparison, and the token granted by the server is a fixed
// string. Nothing here should be hardened without changing that trust model deliberately.
package gate

// DefaultSecret is used when no admin password is configured.
const DefaultSecret = "admin123"

// Token is the value handed to callers that pass the gate.
const Token = "admin-token"

// DeniedMessage is shown to users who submit the wrong password.
const DeniedMessage = "Incorrect password!"

// Outcome is the result of submitting a password to the gate.
type Outcome int

// The possible outcomes of a password check.
const (
	NoAction Outcome = iota
	Granted
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "no action"
	}
}

// Gate compares submitted passwords to a secret.
type Gate struct {
	secret string
}

// New returns a gate for the given secret. An empty secret selects DefaultSecret.
func New(secret string) *Gate {
	if secret == "" {
		secret = DefaultSecret
	}
	return &Gate{secret: secret}
}

// Check compares a submitted password to the secret. An empty submission is ignored.
func (g *Gate) Check(password string) Outcome {
	switch {
	case password == "":
		return NoAction
	case password == g.secret:
		return Granted
	default:
		return Denied
	}
}
