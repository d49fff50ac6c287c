package service

import "github.com/parlakisik/agent-exchange/aex-action-router/internal/model"

// FindParameter returns the value of the last parameter called name.
func FindParameter(params []model.Parameter, name string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, p := range params {
		if p.Name == name {
			value, found = p.Value, true
		}
	}
	return value, found
}
