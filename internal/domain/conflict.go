package domain

import "time"

// Resolution strategies
const (
	StrategySemantic  = "semantic"
	StrategySectional = "sectional"
	StrategyHybrid    = "hybrid"
	StrategyManual    = "manual"
)

// EditConflict records a concurrent-edit situation: a version was committed
// whose declared based-on version was no longer current. The write is never
// blocked; the conflict stays open until an explicit resolution produces a
// new version.
type EditConflict struct {
	ID                   string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID            string     `gorm:"column:content_id;type:varchar(64);index" json:"content_id"`
	BasedOnVersionID     string     `gorm:"column:based_on_version_id;type:varchar(36)" json:"based_on_version_id"`
	ConflictingVersionID string     `gorm:"column:conflicting_version_id;type:varchar(36);index" json:"conflicting_version_id"`
	CurrentVersionID     string     `gorm:"column:current_version_id;type:varchar(36)" json:"current_version_id"`
	DetectedAt           time.Time  `gorm:"column:detected_at;autoCreateTime" json:"detected_at"`
	ResolvedAt           *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolutionStrategy   string     `gorm:"column:resolution_strategy;type:varchar(16)" json:"resolution_strategy,omitempty"`
	ResolvedBy           string     `gorm:"column:resolved_by;type:varchar(64)" json:"resolved_by,omitempty"`
	ResolutionVersionID  string     `gorm:"column:resolution_version_id;type:varchar(36)" json:"resolution_version_id,omitempty"`
}

func (EditConflict) TableName() string { return "content_edit_conflicts" }

// Resolved reports whether the conflict has been closed
func (c *EditConflict) Resolved() bool { return c.ResolvedAt != nil }

// ResolutionData carries strategy-specific input for conflict resolution.
// Manual resolution supplies the final payload outright; sectional and
// hybrid resolution name the regions to take.
type ResolutionData struct {
	Payload  string            `json:"payload,omitempty"`
	Sections map[string]string `json:"sections,omitempty"`
}

// ResolveConflictRequest is the API shape for POST /conflicts/:id/resolve
type ResolveConflictRequest struct {
	Strategy string          `json:"strategy" binding:"required"`
	Data     *ResolutionData `json:"data,omitempty"`
}
