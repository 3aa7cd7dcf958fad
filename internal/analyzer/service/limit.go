package service

import (
	"strings"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

// limitedBuffer collects output up to max bytes. A write that would exceed
// max stores what fits and fails with CodeInvalidInput; max <= 0 means
// unbounded.
type limitedBuffer struct {
	sb  strings.Builder
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.max <= 0 || b.sb.Len()+len(p) <= b.max {
		return b.sb.Write(p)
	}
	n, _ := b.sb.Write(p[:b.max-b.sb.Len()])
	return n, mdwerror.Newf("output exceeds %d bytes", b.max).
		WithCode(mdwerror.CodeInvalidInput).
		WithDetail("limit", b.max)
}

func (b *limitedBuffer) String() string {
	return b.sb.String()
}
