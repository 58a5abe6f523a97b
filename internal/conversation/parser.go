// Package conversation parses authoring console input and notifies the user.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches console input to commands using keywords and
// simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type argMode int

const (
	argsNone argMode = iota
	argsGroups
	argsText
	argsList
)

type patternRule struct {
	regex *regexp.Regexp
	cmd   domain.CommandType
	mode  argMode
	// titled commands accept a trailing "| step title".
	titled bool
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), cmd: domain.CmdHelp},
		{regex: regexp.MustCompile(`(?i)^(next|n|continue)$`), cmd: domain.CmdNext},
		{regex: regexp.MustCompile(`(?i)^(back|b|prev)$`), cmd: domain.CmdBack},
		{regex: regexp.MustCompile(`(?i)^(show|status|ls)$`), cmd: domain.CmdShow},
		{regex: regexp.MustCompile(`(?i)^(catalog|ingredients)$`), cmd: domain.CmdCatalog},
		{regex: regexp.MustCompile(`(?i)^public$`), cmd: domain.CmdSetPublic},
		{regex: regexp.MustCompile(`(?i)^private$`), cmd: domain.CmdSetPrivate},
		{regex: regexp.MustCompile(`(?i)^(submit|finish|publish)$`), cmd: domain.CmdSubmit},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q)$`), cmd: domain.CmdQuit},

		// Info fields take the rest of the line.
		{regex: regexp.MustCompile(`(?i)^title\s+(.+)$`), cmd: domain.CmdSetTitle, mode: argsText},
		{regex: regexp.MustCompile(`(?i)^(?:desc|description)\s+(.+)$`), cmd: domain.CmdSetDescription, mode: argsText},
		{regex: regexp.MustCompile(`(?i)^(?:cat|category)\s+(.+)$`), cmd: domain.CmdSetCategory, mode: argsText},
		{regex: regexp.MustCompile(`(?i)^price\s+(\S+)$`), cmd: domain.CmdSetPrice, mode: argsGroups},

		// Ingredients: "ingredient saffron, g, spices".
		{regex: regexp.MustCompile(`(?i)^(?:ingredient|ing)\s+(.+)$`), cmd: domain.CmdNewIngredient, mode: argsList},
		{regex: regexp.MustCompile(`(?i)^drop\s+(\d+)$`), cmd: domain.CmdDropIngredient, mode: argsGroups},
		{regex: regexp.MustCompile(`(?i)^(?:delete|del)\s+(\d+)$`), cmd: domain.CmdDeleteIngredient, mode: argsGroups},

		// Steps.
		{regex: regexp.MustCompile(`(?i)^add\s+(\S+)\s+(.+)$`), cmd: domain.CmdAddIngredientStep, mode: argsGroups, titled: true},
		{regex: regexp.MustCompile(`(?i)^cook\s+(\S+)\s+(\S+)\s+(\S+)$`), cmd: domain.CmdAddCookingStep, mode: argsGroups, titled: true},
		{regex: regexp.MustCompile(`(?i)^(?:text|note)\s+(.+)$`), cmd: domain.CmdAddTextStep, mode: argsGroups, titled: true},
		{regex: regexp.MustCompile(`(?i)^(?:rm|remove)\s+(\d+)$`), cmd: domain.CmdRemoveStep, mode: argsGroups},
		{regex: regexp.MustCompile(`(?i)^(?:mv|move)\s+(\d+)\s+(\d+)$`), cmd: domain.CmdMoveStep, mode: argsGroups},
	}
	return p
}

// Parse converts console input into a command. It never fails; input it
// cannot match comes back as CmdUnknown with the input in Text.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CmdUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	body, title := splitTitle(trimmed)
	for _, rule := range p.patterns {
		line := trimmed
		if rule.titled {
			line = body
		}
		m := rule.regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		p.log.Debug("matched command: %s", rule.cmd)

		cmd := &domain.Command{Type: rule.cmd}
		switch rule.mode {
		case argsGroups:
			for _, g := range m[1:] {
				cmd.Args = append(cmd.Args, strings.TrimSpace(g))
			}
		case argsText:
			cmd.Text = strings.TrimSpace(m[1])
		case argsList:
			for _, part := range strings.Split(m[1], ",") {
				cmd.Args = append(cmd.Args, strings.TrimSpace(part))
			}
		}
		if rule.titled {
			cmd.Text = title
		}
		return cmd, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CmdUnknown, Text: trimmed}, nil
}

// splitTitle separates "body | title".
func splitTitle(s string) (string, string) {
	i := strings.LastIndex(s, "|")
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
}
