package gateway

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/research"
)

type researchRequest struct {
	Company string `json:"company"`
	Role    string `json:"role"`
}

// Research looks up a company and role. Any backend or network failure is
// logged and, after the fallback delay, answered with deterministic mock
// data flagged Mock. Only a cancelled context surfaces as an error.
func (c *Client) Research(ctx context.Context, company, role string) (model.ResearchResult, error) {
	company, role = strings.TrimSpace(company), strings.TrimSpace(role)
	if company == "" || role == "" {
		return model.ResearchResult{}, model.Invalid("please enter both company name and job role")
	}

	var raw json.RawMessage
	err := c.postJSON(ctx, "research", ResearchPath, researchRequest{Company: company, Role: role}, &raw)
	if err == nil {
		return model.ResearchResult{Company: company, Role: role, Raw: raw}, nil
	}

	c.logger.Warn("research failed, serving mock data", "company", company, "role", role, "error", err)

	timer := time.NewTimer(c.fallbackDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return model.ResearchResult{}, ctx.Err()
	case <-timer.C:
	}

	return model.ResearchResult{Company: company, Role: role, Raw: research.Mock(company, role), Mock: true}, nil
}
