// Package console delivers briefings to a terminal writer. It is the
// default delivery channel when no external one is configured.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Deliverer implements the interface.
var _ driven.Deliverer = (*Deliverer)(nil)

// Deliverer writes briefings to an io.Writer, one block per briefing.
type Deliverer struct {
	mu  sync.Mutex
	out io.Writer
}

// New creates a console deliverer. A nil writer defaults to stdout.
func New(out io.Writer) *Deliverer {
	if out == nil {
		out = os.Stdout
	}
	return &Deliverer{out: out}
}

// Deliver writes one briefing.
func (d *Deliverer) Deliver(_ context.Context, briefing *domain.Briefing) error {
	if briefing == nil {
		return fmt.Errorf("%w: nil briefing", domain.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := fmt.Fprintf(d.out, "\n=== %s (%s) ===\n%s\n",
		briefing.Subject, briefing.GeneratedAt.Format("2006-01-02 15:04"), briefing.Body)
	return err
}
