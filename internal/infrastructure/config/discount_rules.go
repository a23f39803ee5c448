package config

import (
	"fmt"
	"os"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// discountRulesFile is the YAML layout of DISCOUNT_RULES_FILE:
//
//	rules:
//	  - name: ai-addon-enterprise-bundle
//	    target: ai_addon
//	    requires: enterprise_license
//	    min_required_quantity: 1
//	    rate: "0.10"
type discountRulesFile struct {
	Rules []struct {
		Name                string `yaml:"name"`
		Target              string `yaml:"target"`
		Requires            string `yaml:"requires"`
		MinRequiredQuantity int    `yaml:"min_required_quantity"`
		Rate                string `yaml:"rate"`
	} `yaml:"rules"`
}

// DiscountRules returns the configured rule table: the YAML file when set,
// otherwise the default bundle rule at BundleDiscountRate.
func (c Config) DiscountRules() (pricing.RuleTable, error) {
	var rules pricing.RuleTable
	if c.DiscountRulesFile == "" {
		rules = pricing.DefaultRules(c.BundleDiscountRate)
	} else {
		raw, err := os.ReadFile(c.DiscountRulesFile)
		if err != nil {
			return nil, fmt.Errorf("read discount rules: %w", err)
		}
		rules, err = ParseDiscountRules(raw)
		if err != nil {
			return nil, err
		}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

func ParseDiscountRules(raw []byte) (pricing.RuleTable, error) {
	var f discountRulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: discount rules yaml: %v", entities.ErrInvalidInput, err)
	}
	rules := make(pricing.RuleTable, 0, len(f.Rules))
	for _, r := range f.Rules {
		target, err := entities.ParseCategory(r.Target)
		if err != nil {
			return nil, fmt.Errorf("rule %q target: %w", r.Name, err)
		}
		requires, err := entities.ParseCategory(r.Requires)
		if err != nil {
			return nil, fmt.Errorf("rule %q requires: %w", r.Name, err)
		}
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q rate %q", entities.ErrInvalidInput, r.Name, r.Rate)
		}
		rules = append(rules, pricing.DiscountRule{
			Name:                r.Name,
			Target:              target,
			Requires:            requires,
			MinRequiredQuantity: r.MinRequiredQuantity,
			Rate:                rate,
		})
	}
	return rules, nil
}
