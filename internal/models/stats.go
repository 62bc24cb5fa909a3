package models

// Stats - агрегаты для панели мониторинга
type Stats struct {
	DailyFireCount   int              `json:"dailyFireCount"`
	MonthlyFireCount int              `json:"monthlyFireCount"`
	ActivityData     []ActivityBucket `json:"activityData"`
	StatusBreakdown  []StatusBucket   `json:"statusBreakdown"`
}

// ActivityBucket - число инцидентов за четырехчасовой интервал текущего дня
type ActivityBucket struct {
	Name  string `json:"name"`
	Fires int    `json:"fires"`
}

// StatusBucket - число инцидентов в одном статусе
type StatusBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}
