package generateschemecatalog

import "kisan-scheme-workers/internal/scheme"

type Input struct {
	State string `json:"state"`
}

type Output struct {
	State              string                   `json:"state"`
	RegionalMultiplier float64                  `json:"regionalMultiplier"`
	SupportedState     bool                     `json:"supportedState"`
	SchemeCount        int                      `json:"schemeCount"`
	Schemes            []scheme.GeneratedScheme `json:"schemes"`
}
