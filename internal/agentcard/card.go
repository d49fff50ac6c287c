package agentcard

import (
	"fmt"
	"strings"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/service"
)

// Build returns the card for an action group served at url. Every route
// becomes one skill whose name is its API path template.
func Build(name, url, version string, routes []service.Route) *AgentCard {
	skills := make([]Skill, 0, len(routes))
	for _, r := range routes {
		skills = append(skills, Skill{
			ID:          r.String(),
			Name:        r.Path(),
			Description: r.Description(),
			Tags:        []string{"action-group", strings.Split(strings.TrimPrefix(r.Path(), "/"), "/")[0]},
		})
	}

	return &AgentCard{
		Name:               name,
		Description:        "Routes agent action-group invocations to the member API.",
		URL:                url,
		Version:            version,
		DefaultInputModes:  []string{"application/json"},
		DefaultOutputModes: []string{"application/json"},
		Skills:             skills,
	}
}

// Validate checks if an agent card is valid and well-formed
func Validate(card *AgentCard) error {
	if card.Name == "" {
		return fmt.Errorf("agent card missing required field: name")
	}
	if card.URL == "" {
		return fmt.Errorf("agent card missing required field: url")
	}
	if len(card.Skills) == 0 {
		return fmt.Errorf("agent card must have at least one skill")
	}

	for i, skill := range card.Skills {
		if skill.ID == "" {
			return fmt.Errorf("skill %d missing required field: id", i)
		}
		if skill.Name == "" {
			return fmt.Errorf("skill %d missing required field: name", i)
		}
	}

	return nil
}
