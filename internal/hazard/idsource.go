package hazard

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource issues hazard identifiers. Identifiers are opaque and only need to
// be unique within one Detect call.
type IDSource interface {
	NextID() string
}

// UUIDSource issues random UUIDv4 strings.
type UUIDSource struct{}

// NextID implements IDSource.
func (UUIDSource) NextID() string {
	return uuid.NewString()
}

// SequenceSource issues "hz_000001", "hz_000002", ... and is safe for
// concurrent use.
type SequenceSource struct {
	n atomic.Uint64
}

// NextID implements IDSource.
func (s *SequenceSource) NextID() string {
	return fmt.Sprintf("hz_%06d", s.n.Add(1))
}
