package request

// DisplayStatus maps a (request_type, status) pair to the label dashboards
// show. It is pure and total over the reachable combinations; ok=false marks
// a pair the lifecycle can never produce, which callers log instead of
// stringifying.
func DisplayStatus(t Type, s Status) (label string, ok bool) {
	switch t {
	case TypeBorrow:
		switch s {
		case StatusPending:
			return "Borrow Request Pending", true
		case StatusBorrowed, StatusApproved:
			return "Borrowed", true
		case StatusReturned:
			return "Returned", true
		case StatusRejected:
			return "Borrow Request Rejected", true
		}
	case TypeReturn:
		switch s {
		case StatusPending:
			return "Return Request Pending", true
		case StatusReturned, StatusApproved:
			return "Returned", true
		case StatusRejected:
			return "Return Request Rejected", true
		}
	}
	return "", false
}
