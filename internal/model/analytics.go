package model

// Aggregates served by the analytics endpoints. Derived, never persisted.

type OverallProgress struct {
	TotalModules     int     `json:"totalModules"`
	CompletedModules int     `json:"completedModules"`
	AverageScore     float64 `json:"averageScore"`
}

type WeekProgress struct {
	Week             string  `json:"week"`
	StudyTime        int     `json:"studyTime"` // minutes
	ModulesCompleted int     `json:"modulesCompleted"`
	AverageScore     float64 `json:"averageScore"`
}

type MonthlyData struct {
	Month            string  `json:"month"`
	ModulesCompleted int     `json:"modulesCompleted"`
	AverageScore     float64 `json:"averageScore"`
}
