package domain

// Preferences holds user-chosen display and behavior settings. They live on
// their own storage key, outside the main document.
type Preferences struct {
	CurrencyCode             string `json:"currencyCode"`
	DateFormat               string `json:"dateFormat"`     // MM/DD/YYYY, DD/MM/YYYY or YYYY-MM-DD
	FirstDayOfWeek           int    `json:"firstDayOfWeek"` // 0 = Sunday, 1 = Monday
	BudgetStartDay           int    `json:"budgetStartDay"` // 1-28
	Theme                    string `json:"theme"`          // light, dark or system
	EnableAppLock            bool   `json:"enableAppLock"`
	LockTimeout              int    `json:"lockTimeout"` // minutes
	EnableNotifications      bool   `json:"enableNotifications"`
	IncludeTransfersInTotals bool   `json:"includeTransfersInTotals"`
}

// DefaultPreferences returns the settings a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		CurrencyCode:   "BDT",
		DateFormat:     "DD/MM/YYYY",
		FirstDayOfWeek: 0,
		BudgetStartDay: 1,
		Theme:          "system",
		LockTimeout:    5,
	}
}
