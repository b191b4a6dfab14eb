package driven

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// Deliverer hands a generated briefing to an external delivery channel
// (email, chat, log). Optional: when nil, briefings are generated but
// not delivered.
type Deliverer interface {
	// Deliver sends one briefing. Implementations decide the channel
	// and formatting.
	Deliver(ctx context.Context, briefing *domain.Briefing) error
}
