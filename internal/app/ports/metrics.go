package ports

import "rpverse/internal/domain/rp"

type ResolveMetrics interface {
	RecordResolved(category rp.Category)
	RecordRejected(reason rp.RejectReason)
	RecordConflict()
	RecordFailure()
}
