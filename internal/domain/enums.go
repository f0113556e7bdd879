package domain

// UserRole defines the back-office role hierarchy.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ProposalStatus represents the lifecycle of a commercial proposal.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// DiscountType distinguishes percentage from fixed-amount discounts.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// ImportStatus is the closed status set of an ImportJob. Transitions are
// monotonic: queued → extracting → parsing → done; failed is terminal and
// reachable from any non-terminal status.
type ImportStatus string

const (
	ImportStatusQueued     ImportStatus = "queued"
	ImportStatusExtracting ImportStatus = "extracting"
	ImportStatusParsing    ImportStatus = "parsing"
	ImportStatusDone       ImportStatus = "done"
	ImportStatusFailed     ImportStatus = "failed"
)

// PDFContentType is the only content type the upload gate accepts.
const PDFContentType = "application/pdf"
