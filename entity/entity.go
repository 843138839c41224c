package entity

// Agreements is the persisted agreement document: user id to the literal true.
// A missing key means the user has not agreed.
type Agreements map[string]bool
