package models

const (
	KYCStatusApproved = "approved"
	KYCStatusPending  = "pending"
	KYCStatusRejected = "rejected"
)

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point is inside the [-90,90] x [-180,180] range.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

type GuardProfile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio,omitempty"`
	Location       *GeoPoint `json:"location,omitempty"`
	HourlyRate     float64   `json:"hourlyRate"`
	Rating         float64   `json:"rating"`
	CompletedJobs  int       `json:"completedJobs"`
	Languages      []string  `json:"languages"`
	Certifications []string  `json:"certifications"`
	IsAvailable    bool      `json:"isAvailable"`
	KYCStatus      string    `json:"kycStatus"`
}

func (g GuardProfile) KYCApproved() bool {
	return g.KYCStatus == KYCStatusApproved
}

type GuardContact struct {
	GuardID string `json:"guardId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type MatchResult struct {
	Guard             GuardProfile       `json:"guard"`
	Score             float64            `json:"score"`
	Breakdown         map[string]float64 `json:"breakdown"`
	DistanceKm        *float64           `json:"distanceKm,omitempty"`
	TravelTimeMinutes *float64           `json:"travelTimeMinutes,omitempty"`
}
