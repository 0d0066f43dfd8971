package models

// Region describes one of the supported regions.
type Region struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Color    string `json:"color"`
}
