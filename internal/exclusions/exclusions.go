package exclusions

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a participant address should be dropped from
// event participant sets, typically automation accounts, bots, or
// mailing-list addresses that would distort collaboration metrics.
type Checker struct {
	addresses map[string]struct{}
	domains   []string
	logger    *zap.Logger
}

// NewChecker creates a new exclusion checker from address and domain
// lists. Entries are normalized to lowercase.
func NewChecker(addresses, domains []string, logger *zap.Logger) *Checker {
	addrSet := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		addrSet[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}

	normalizedDomains := make([]string, 0, len(domains))
	for _, d := range domains {
		normalizedDomains = append(normalizedDomains, strings.ToLower(strings.TrimSpace(d)))
	}

	if (len(addrSet) > 0 || len(normalizedDomains) > 0) && logger != nil {
		logger.Info("Initialized participant exclusions",
			zap.Int("addresses", len(addrSet)),
			zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		addresses: addrSet,
		domains:   normalizedDomains,
		logger:    logger,
	}
}

// IsExcluded checks whether a participant key is excluded by address or
// by domain
func (c *Checker) IsExcluded(key string) bool {
	key = strings.ToLower(key)
	if _, ok := c.addresses[key]; ok {
		return true
	}

	parts := strings.Split(key, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	for _, d := range c.domains {
		if d == domain {
			return true
		}
	}
	return false
}

// Filter returns the participant keys that are not excluded, preserving
// order
func (c *Checker) Filter(keys []string) []string {
	if len(c.addresses) == 0 && len(c.domains) == 0 {
		return keys
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if c.IsExcluded(k) {
			if c.logger != nil {
				c.logger.Debug("Participant excluded", zap.String("participant", k))
			}
			continue
		}
		out = append(out, k)
	}
	return out
}
