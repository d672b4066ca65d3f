package book

// CopyStatus is the loanable state of a single physical copy.
//
// Valid transitions: available → loaned (borrow) and loaned → available
// (return). Maintenance and soft deletion are administrative side states;
// a soft-deleted copy is never selectable and never counted as available.
type CopyStatus string

const (
	CopyStatusAvailable   CopyStatus = "available"
	CopyStatusLoaned      CopyStatus = "loaned"
	CopyStatusMaintenance CopyStatus = "maintenance"
)

func (s CopyStatus) String() string {
	return string(s)
}
