package session

// Feature describes one premium capability. None of them are implemented
// yet; the catalog drives the upgrade screen.
type Feature struct {
	ID          string
	Name        string
	Description string
	Available   bool
}

// PremiumFeatures lists the capabilities reserved for premium users.
func PremiumFeatures() []Feature {
	return []Feature{
		{
			ID:          "cloud_backup",
			Name:        "Cloud Backup",
			Description: "Securely backup your data to the cloud",
		},
		{
			ID:          "device_sync",
			Name:        "Multi-Device Sync",
			Description: "Synchronize your data across multiple devices",
		},
		{
			ID:          "custom_categories",
			Name:        "Custom Categories",
			Description: "Create your own custom information categories",
		},
		{
			ID:          "advanced_search",
			Name:        "Advanced Search",
			Description: "Enhanced search capabilities across all your data",
		},
	}
}
