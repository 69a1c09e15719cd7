package domain

// Account is a registered player account. The credential hash is opaque to
// this service and is only ever stored, never interpreted.
type Account struct {
	ID        int64  `json:"accountId"`
	LoginName string `json:"loginName"`
	Password  string `json:"-"`
}
