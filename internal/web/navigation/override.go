package navigation

import (
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/menulayout"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// ErrInvalidMenu is returned for a static menu tree with missing or duplicate node ids.
var ErrInvalidMenu = errors.New("invalid menu tree")

// Scope tells where the applied layout came from.
type Scope string

const (
	// ScopeUser marks a layout stored for the requesting user.
	ScopeUser Scope = "user"
	// ScopeGlobal marks the layout shared by every user of the layout key.
	ScopeGlobal Scope = "global"
	// ScopeDefault marks the unmodified static tree.
	ScopeDefault Scope = "default"
)

// NodeOverride customizes a single node. Nil fields keep the static behavior.
type NodeOverride struct {
	NodeID   string `json:"nodeId"             validate:"required,max=100"`
	Visible  *bool  `json:"visible,omitempty"`
	Position *int   `json:"position,omitempty" validate:"omitempty,min=0"`
}

// Override is a decoded layout row.
type Override struct {
	Scope     Scope
	Nodes     []NodeOverride
	UpdatedAt *time.Time
	UpdatedBy string
}

// EncodeOverrides serializes overrides for storage.
func EncodeOverrides(nodes []NodeOverride) (string, error) {
	if nodes == nil {
		nodes = []NodeOverride{}
	}

	out, err := json.Marshal(nodes)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// DecodeOverrides parses stored overrides.
func DecodeOverrides(structureJSON string) ([]NodeOverride, error) {
	if structureJSON == "" {
		return nil, nil
	}

	var nodes []NodeOverride
	if err := json.Unmarshal([]byte(structureJSON), &nodes); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode menu layout")
	}

	return nodes, nil
}

// LoadOverride looks up the layout for a user: the user's own row, else the global row, else nil.
// A row that cannot be decoded is logged and treated as absent.
func LoadOverride(db *gorm.DB, layoutKey string, userID uint64) (*Override, error) {
	row, err := menulayout.Resolve(db, layoutKey, userID)
	if err != nil {
		return nil, err
	}

	if row == nil {
		return nil, nil //nolint:nilnil // no override stored
	}

	return toOverride(db, row), nil
}

// LoadGlobalOverride returns the global layout of layoutKey or nil.
func LoadGlobalOverride(db *gorm.DB, layoutKey string) (*Override, error) {
	row, err := menulayout.Get(db, layoutKey, nil)
	if errors.Is(err, auth.ErrNotFound) {
		return nil, nil //nolint:nilnil // no override stored
	}

	if err != nil {
		return nil, err
	}

	return toOverride(db, row), nil
}

func toOverride(db *gorm.DB, row *models.MenuLayout) *Override {
	nodes, err := DecodeOverrides(row.StructureJSON)
	if err != nil {
		log.Error().Err(err).Str("scope_key", row.ScopeKey).Msg("ignoring unreadable menu layout")

		// a user row still shadows the global row, so the static defaults are served
		return nil
	}

	ov := &Override{
		Scope:     ScopeGlobal,
		Nodes:     nodes,
		UpdatedAt: &row.UpdatedAt,
		UpdatedBy: updatedBy(db, row.UpdatedByUserID),
	}
	if row.UserID != nil {
		ov.Scope = ScopeUser
	}

	return ov
}

func updatedBy(db *gorm.DB, userID *uint64) string {
	if userID == nil {
		return ""
	}

	var user models.User
	if err := db.Select("id", "username", "full_name").First(&user, *userID).Error; err != nil {
		return ""
	}

	return user.DisplayName()
}
