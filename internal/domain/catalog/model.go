package catalog

import "time"

// DefaultLeadDays is the analysis lead time used when a discipline has none configured.
const DefaultLeadDays = 5

// Kind names one of the entity types a revision references.
type Kind string

const (
	KindVenture    Kind = "venture"
	KindWork       Kind = "work"
	KindDiscipline Kind = "discipline"
	KindDesigner   Kind = "designer"
)

// Venture is the top-level development a set of works belongs to.
type Venture struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Work is a construction site or building of one venture.
type Work struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	VentureID string    `json:"venture_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Discipline is a design specialty with its typical analysis lead time in days.
type Discipline struct {
	ID                      string    `json:"id"`
	OwnerID                 string    `json:"owner_id"`
	Name                    string    `json:"name"`
	AverageAnalysisLeadDays int       `json:"average_analysis_lead_days"`
	CreatedAt               time.Time `json:"created_at"`
}

// Designer is the firm or person producing documents.
type Designer struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
