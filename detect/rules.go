package detect

import (
	"strings"

	"github.com/tbxark/docfill/types"
)

// nameRule classifies a normalized field name. Rules are evaluated in order,
// first match wins; the zero describe falls back to title-casing the name.
type nameRule struct {
	keywords []string
	ftype    types.FieldType
	describe string
}

var nameRules = []nameRule{
	{keywords: []string{"DATE", "DEADLINE"}, ftype: types.FieldDate},
	{keywords: []string{"EMAIL", "MAIL"}, ftype: types.FieldEmail},
	{keywords: []string{"AMOUNT", "PRICE", "VALUATION", "CAP", "VALUE", "COST"}, ftype: types.FieldNumber},
	{keywords: []string{"STATE"}, ftype: types.FieldState, describe: "State"},
}

func classifyName(name string) (types.FieldType, string) {
	for _, rule := range nameRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				desc := rule.describe
				if desc == "" {
					desc = titleCase(name)
				}
				return rule.ftype, desc
			}
		}
	}
	return types.FieldText, titleCase(name)
}

// contextRule infers the identity of an underscore-only marker from the text
// around it. The window is case-folded before matching.
type contextRule struct {
	keywords    []string
	name        string
	description string
	ftype       types.FieldType
}

var contextRules = []contextRule{
	{keywords: []string{"company name", "name of the company"},
		name: "COMPANY_NAME", description: "Company Name", ftype: types.FieldText},
	{keywords: []string{"investor name", "name of the investor"},
		name: "INVESTOR_NAME", description: "Investor Name", ftype: types.FieldText},
	{keywords: []string{"$", "purchase amount", "investment"},
		name: "PURCHASE_AMOUNT", description: "Purchase Amount", ftype: types.FieldNumber},
	{keywords: []string{"date", "day of"},
		name: "DATE", description: "Date", ftype: types.FieldDate},
	{keywords: []string{"valuation cap", "post-money"},
		name: "VALUATION_CAP", description: "Valuation Cap", ftype: types.FieldNumber},
	{keywords: []string{"state of", "incorporated in"},
		name: "STATE_OF_INCORPORATION", description: "State of Incorporation", ftype: types.FieldState},
}

// inferFromContext resolves a blank marker against the context rules.
// An unidentifiable blank yields ok=false and no field is created for it:
// leaving a blank untouched beats mis-tagging it.
func inferFromContext(window string) (contextRule, bool) {
	window = strings.ToLower(window)
	for _, rule := range contextRules {
		for _, kw := range rule.keywords {
			if strings.Contains(window, kw) {
				return rule, true
			}
		}
	}
	return contextRule{}, false
}

func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
