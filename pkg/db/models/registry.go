package models

// All lists every persisted model. SQLite databases are created from this list
// through AutoMigrate; Postgres schemas come from the goose migrations.
func All() []any {
	return []any{
		&Charity{},
		&User{},
		&Subscription{},
		&Document{},
		&UsageEvent{},
		&Transaction{},
	}
}
