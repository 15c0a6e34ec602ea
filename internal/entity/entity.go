package entity

// Entity is anything persisted to the read-side indices, keyed by its slug.
type Entity interface {
	Slug() string
}
