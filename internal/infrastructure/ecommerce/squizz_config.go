package ecommerce

import (
	"errors"
	"strings"
	"time"
)

// SquizzProductionAPIURL is the production REST endpoint of the platform.
const SquizzProductionAPIURL = "https://api.squizz.com/rest/1"

// SquizzConfig holds the credentials of the organization this service acts
// for and the supplier whose catalog it follows.
type SquizzConfig struct {
	// BaseURL is the REST API root, without a trailing slash
	BaseURL string
	// OrgID is the platform id of our organization
	OrgID string
	// OrgKey is the API key issued to our organization
	OrgKey string
	// OrgPassword is the API password of our organization
	OrgPassword string
	// SupplierOrgID is the platform id of the supplier organization
	SupplierOrgID string
	// Timeout bounds a single HTTP exchange
	Timeout time.Duration
	// RequestsPerSecond caps outbound calls; zero disables the limit
	RequestsPerSecond float64
}

// Errors for platform configuration
var (
	ErrSquizzConfigMissingOrgID       = errors.New("squizz: organization id is required")
	ErrSquizzConfigMissingOrgKey      = errors.New("squizz: organization API key is required")
	ErrSquizzConfigMissingOrgPassword = errors.New("squizz: organization API password is required")
	ErrSquizzConfigMissingSupplier    = errors.New("squizz: supplier organization id is required")
)

// Validate checks the configuration and fills in defaults.
func (c *SquizzConfig) Validate() error {
	if c.OrgID == "" {
		return ErrSquizzConfigMissingOrgID
	}
	if c.OrgKey == "" {
		return ErrSquizzConfigMissingOrgKey
	}
	if c.OrgPassword == "" {
		return ErrSquizzConfigMissingOrgPassword
	}
	if c.SupplierOrgID == "" {
		return ErrSquizzConfigMissingSupplier
	}
	if c.BaseURL == "" {
		c.BaseURL = SquizzProductionAPIURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
