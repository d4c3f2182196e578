package repository

// Models lists every GORM model for AutoMigrate, parents first.
func Models() []any {
	return []any{
		&ProfileModel{},
		&ListingModel{},
		&BookingModel{},
		&NotificationModel{},
	}
}
