package indexguardprofile

type Input struct {
	GuardID string `json:"guardId"`
}

type Output struct {
	GuardID        string `json:"guardId"`
	CatalogIndexed bool   `json:"catalogIndexed"`
	GeoIndexed     bool   `json:"geoIndexed"`
}
