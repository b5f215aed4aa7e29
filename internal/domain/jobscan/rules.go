// Package jobscan converts raw job description text into a 6-dimension role
// vector with per-dimension evidence. Classification is ordered regex rules
// evaluated highest level first; the rule tables live here as versioned data
// so they can be tested independently of the encoder.
package jobscan

import "regexp"

// Dimension keys, in canonical order. Missing-dimension reporting preserves
// this order verbatim.
const (
	DimStructuralMaturity = "structural_maturity"
	DimAuthorityScope     = "authority_scope"
	DimRevenueOrientation = "revenue_orientation"
	DimRoleAmbiguity      = "role_ambiguity"
	DimBreadthDepth       = "breadth_depth"
	DimStakeholderDensity = "stakeholder_density"
)

// Dimensions lists the six dimension keys in canonical order.
var Dimensions = []string{
	DimStructuralMaturity,
	DimAuthorityScope,
	DimRevenueOrientation,
	DimRoleAmbiguity,
	DimBreadthDepth,
	DimStakeholderDensity,
}

// AuthorityIndex is the position of the authority-scope dimension in role
// vectors; the skill-match formula applies its modifier to this dimension.
const AuthorityIndex = 1

// ruleSet holds the ordered pattern lists for one dimension. Evaluation
// order is level 2, then 1, then 0; the first level with a match wins.
type ruleSet struct {
	level2 []*regexp.Regexp
	level1 []*regexp.Regexp
	level0 []*regexp.Regexp
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// ruleTable maps each dimension to its level rule sets. Patterns match
// against normalized (lowercased, whitespace-collapsed) job text.
var ruleTable = map[string]ruleSet{
	DimStructuralMaturity: {
		level2: compile(
			`established process(es)?`,
			`mature (team|organization|org|company)`,
			`well[- ]defined process(es)?`,
			`standard operating procedures?`,
			`documented (process|procedure|workflow)\w*`,
		),
		level1: compile(
			`scaling (team|company|organization)`,
			`growing (team|company|startup)`,
			`series [b-d]\b`,
			`evolving process\w*`,
			`building out (our|the) process\w*`,
		),
		level0: compile(
			`early[- ]stage`,
			`startup environment`,
			`greenfield`,
			`from scratch`,
			`wear (many|multiple) hats`,
			`no (formal )?process\w*`,
		),
	},
	DimAuthorityScope: {
		level2: compile(
			`full ownership`,
			`final (say|decision)`,
			`decision[- ]making authority`,
			`report(s|ing)? (directly )?to the (ceo|founder|board)`,
			`set(ting)? (the )?(strategy|direction|roadmap)`,
			`p&l (ownership|responsibility)`,
		),
		level1: compile(
			`lead(s|ing)? a team`,
			`manag(e|ing) \d+`,
			`influence\w* (the )?(roadmap|strategy|direction)`,
			`mentor\w*`,
			`coordinat\w+ across`,
		),
		level0: compile(
			`individual contributor`,
			`under (close )?supervision`,
			`execut\w+ (on )?(assigned|defined) (tasks|work)`,
			`support(ing)? role`,
			`follow(ing)? (the )?direction`,
		),
	},
	DimRevenueOrientation: {
		level2: compile(
			`revenue (target|goal|quota)s?`,
			`\bquota\b`,
			`sales pipeline`,
			`clos(e|ing) deals`,
			`\b(arr|mrr)\b`,
			`commission`,
		),
		level1: compile(
			`customer retention`,
			`growth metrics`,
			`conversion (rate|funnel)s?`,
			`upsell\w*`,
			`revenue[- ]adjacent`,
		),
		level0: compile(
			`internal tool(s|ing)?`,
			`cost center`,
			`back[- ]office`,
			`research focus\w*`,
			`platform (team|work)`,
		),
	},
	DimRoleAmbiguity: {
		level2: compile(
			`ambigu(ous|ity)`,
			`undefined (scope|problems?|role)`,
			`figure (it|things) out`,
			`no playbook`,
			`loosely defined`,
			`chart your own`,
		),
		level1: compile(
			`some ambiguity`,
			`evolving (role|scope)`,
			`shifting priorities`,
			`flexible scope`,
			`priorities may change`,
		),
		level0: compile(
			`clearly defined`,
			`well[- ]scoped`,
			`detailed (job )?description`,
			`fixed responsibilities`,
			`established expectations`,
		),
	},
	DimBreadthDepth: {
		level2: compile(
			`generalist`,
			`end[- ]to[- ]end ownership`,
			`across (multiple|all) (areas|domains|functions|teams)`,
			`full[- ]stack`,
			`wide (range|variety) of`,
		),
		level1: compile(
			`t[- ]shaped`,
			`primary focus`,
			`secondary responsibilities`,
			`occasional\w* (support|work) (on|in|outside)`,
		),
		level0: compile(
			`specialist`,
			`deep (expertise|experience) in`,
			`subject[- ]matter expert`,
			`narrow\w* focus\w*`,
			`single (domain|area|discipline)`,
		),
	},
	DimStakeholderDensity: {
		level2: compile(
			`(many|multiple|numerous) stakeholders`,
			`executive (team|leadership|stakeholders)`,
			`\bboard\b`,
			`external (clients?|partners?|vendors?)`,
			`regulators?`,
			`cross[- ]functional (teams?|partners?|stakeholders?)`,
		),
		level1: compile(
			`internal teams`,
			`adjacent teams`,
			`work(ing)? (closely )?with (product|engineering|design|marketing)`,
			`\bpeers\b`,
		),
		level0: compile(
			`work(ing)? independently`,
			`\bsolo\b`,
			`minimal (meetings|interaction|coordination)`,
			`heads[- ]down`,
			`deep[- ]work environment`,
		),
	},
}
