package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// Method identifies how a Credential is presented to the remote service.
type Method string

const (
	MethodBasic  Method = "basic"
	MethodBearer Method = "bearer"
)

// Credential is either a Basic (identity + secret) or a Bearer (secret)
// credential. It is immutable once constructed. String never includes the
// secret so a Credential is safe to pass to a logger by accident.
type Credential struct {
	method   Method
	identity string
	secret   string
}

// Basic returns a credential sent as base64("identity:secret").
func Basic(identity, secret string) Credential {
	return Credential{method: MethodBasic, identity: identity, secret: secret}
}

// Bearer returns a credential sent as a raw bearer token.
func Bearer(secret string) Credential {
	return Credential{method: MethodBearer, secret: secret}
}

// Method returns the credential kind.
func (c Credential) Method() Method { return c.method }

// Identity returns the basic-auth identity (usually an email). It is empty for
// bearer credentials.
func (c Credential) Identity() string { return c.identity }

// Secret returns the raw secret. Only the credential store and Apply should
// need it.
func (c Credential) Secret() string { return c.secret }

// IsZero reports whether the credential was never set.
func (c Credential) IsZero() bool { return c.method == "" }

// Header returns the Authorization header value.
func (c Credential) Header() (string, error) {
	switch c.method {
	case MethodBasic:
		raw := c.identity + ":" + c.secret
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw)), nil
	case MethodBearer:
		return "Bearer " + c.secret, nil
	default:
		return "", fmt.Errorf("no credential configured")
	}
}

// Apply sets the Authorization header on req.
func (c Credential) Apply(req *http.Request) error {
	v, err := c.Header()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", v)
	return nil
}

// String implements fmt.Stringer without exposing the secret.
func (c Credential) String() string {
	switch c.method {
	case MethodBasic:
		return fmt.Sprintf("basic(%s)", c.identity)
	case MethodBearer:
		return "bearer(****)"
	default:
		return "none"
	}
}

// GoString keeps %#v from printing the secret.
func (c Credential) GoString() string { return c.String() }
