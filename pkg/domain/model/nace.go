package model

import "github.com/osgb-lab/riskcatalog/pkg/domain/types"

// NaceClassification is one row of the external activity reference table:
// a 6-digit dot-grouped code ("01.11.14"), its activity label and the
// regulatory danger class. The table is read-only and cached for process
// lifetime.
type NaceClassification struct {
	Code        string            `json:"code"`
	Activity    string            `json:"activity"`
	DangerClass types.DangerClass `json:"dangerClass"`
}

// NaceSuggestion is an approximate match returned when no exact
// classification exists for a queried code.
type NaceSuggestion struct {
	Code         string            `json:"code"`
	Activity     string            `json:"activity"`
	DangerClass  types.DangerClass `json:"dangerClass"`
	Distance     int               `json:"distance"`
	PrefixLength int               `json:"prefixLength"`
}
