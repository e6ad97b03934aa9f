// Package conversation provides item parsing, intent parsing and user
// notification for the shopping REPL.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Anything it does not recognise is treated as a grocery request
// for the agent.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	group  int // capture group carried as payload, 0 for none
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit, 0},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp, 0},
		{regexp.MustCompile(`(?i)^(ok|okay|yes|y|checkout|check out|confirm|proceed)[.!]?$`), domain.IntentConfirm, 0},
		{regexp.MustCompile(`(?i)^(basket|cart|b|show (?:my )?(?:basket|cart))$`), domain.IntentShowBasket, 0},
		{regexp.MustCompile(`(?i)^(compare|prices|stores|c|show prices)$`), domain.IntentCompare, 0},
		{regexp.MustCompile(`(?i)^(new|new order|start over|reset)$`), domain.IntentNewOrder, 0},
		{regexp.MustCompile(`(?i)^add\s+(.+)$`), domain.IntentAddItems, 1},
		{regexp.MustCompile(`(?i)^(?:remove|delete|drop|take out)\s+(.+)$`), domain.IntentRemoveItems, 1},
		{regexp.MustCompile(`(?i)^(?:(?:choose|select|pick|use|go with)\s+)?(sainsbury'?s?|tesco|asda|waitrose|cheapest|fastest|[1-4])$`), domain.IntentSelectStore, 1},
		{regexp.MustCompile(`(?i)^(?:my\s+)?(?:delivery\s+)?address(?:\s+is)?\s*:?\s+(.+)$`), domain.IntentAddress, 1},
	}
	return p
}

// Parse converts user input into an intent. While the conversation is
// waiting for an address, free text is taken as the address.
func (p *KeywordParser) Parse(ctx context.Context, input string, conv *domain.Conversation) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.group > 0 {
			intent.Payload = strings.TrimSpace(m[rule.group])
		}
		return intent, nil
	}

	if conv != nil && conv.Stage == domain.StageAwaitingAddress {
		return &domain.Intent{Type: domain.IntentAddress, Payload: trimmed}, nil
	}

	return &domain.Intent{Type: domain.IntentItems, Payload: trimmed}, nil
}
